package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SectionContent_Valid(t *testing.T) {
	doc := []byte(`{"headline": "Trusted Local Plumbers", "subhead": "Serving Springfield since 1998", "body": "", "cta_label": "Call Now"}`)
	assert.NoError(t, Validate(SectionContentSchema, doc))
}

func TestValidate_SectionContent_MissingHeadline(t *testing.T) {
	doc := []byte(`{"subhead": "no headline here"}`)

	err := Validate(SectionContentSchema, doc)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidate_SectionContent_UnknownField(t *testing.T) {
	doc := []byte(`{"headline": "ok", "extra": "rejected"}`)
	assert.Error(t, Validate(SectionContentSchema, doc))
}

func TestValidate_MetaTags_TooLong(t *testing.T) {
	longTitle := make([]byte, 0, 80)
	for i := 0; i < 70; i++ {
		longTitle = append(longTitle, 'x')
	}
	doc := []byte(`{"meta_title": "` + string(longTitle) + `", "meta_description": "fine"}`)

	assert.Error(t, Validate(MetaTagsSchema, doc))
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(SectionContentSchema, []byte(`{not json`))

	assert.Error(t, err)
	var ve *ValidationError
	assert.NotErrorAs(t, err, &ve, "parse failures are not schema violations")
}

func TestValidate_UnknownSchema(t *testing.T) {
	assert.Error(t, Validate("nope", []byte(`{}`)))
}
