package directory

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/site-builder/internal/types"
)

// ImportResult bundles everything an import produced: the normalized record,
// the fact sources for scoring, and any soft failures encountered along the
// way.
type ImportResult struct {
	Record  *types.BusinessRecord
	Sources types.Sources
	// SoftErrors are enrichment failures that did not abort the import
	// (e.g. photo pagination cut short by a rate limit).
	SoftErrors []error
}

// Importer pulls business facts from GBP and Places and normalizes them.
type Importer struct {
	GBP    *GBPClient
	Places *PlacesClient
}

// Import fetches from whichever sources have identifiers, concurrently. Each
// source degrades independently: one failing does not abort the other, but
// if every requested source fails the import as a whole fails. Auth errors
// are never swallowed, since the caller must know to reauthenticate.
func (im *Importer) Import(ctx context.Context, gbpLocationID, placeID string) (*ImportResult, error) {
	if gbpLocationID == "" && placeID == "" {
		return nil, fmt.Errorf("import requires a GBP location ID or a place ID")
	}

	result := &ImportResult{}
	var loc *gbpLocation
	var place *placeDetails
	var gbpErr, placesErr error

	g, gctx := errgroup.WithContext(ctx)

	if gbpLocationID != "" && im.GBP != nil {
		g.Go(func() error {
			loc, result.Sources.GBP, gbpErr = im.importGBP(gctx, gbpLocationID, result)
			if IsReauth(gbpErr) {
				return gbpErr // cancel the other source, nothing can proceed
			}
			return nil
		})
	}

	if placeID != "" && im.Places != nil {
		g.Go(func() error {
			place, placesErr = im.Places.FetchDetails(gctx, placeID)
			if placesErr == nil {
				result.Sources.Places = normalizePlaces(place)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if result.Sources.GBP == nil && result.Sources.Places == nil {
		if gbpErr != nil {
			return nil, gbpErr
		}
		return nil, placesErr
	}

	if gbpErr != nil {
		log.Printf("[import] gbp source degraded: %v", gbpErr)
		result.SoftErrors = append(result.SoftErrors, gbpErr)
	}
	if placesErr != nil {
		log.Printf("[import] places source degraded: %v", placesErr)
		result.SoftErrors = append(result.SoftErrors, placesErr)
	}

	result.Record = buildRecord(gbpLocationID, loc, placeID, place, result.Sources)
	return result, nil
}

// importGBP fetches the location, review summary, and photos. The location
// payload is required; reviews and photos are enrichment and degrade to
// absent fields.
func (im *Importer) importGBP(ctx context.Context, locationID string, result *ImportResult) (*gbpLocation, *types.GbpFacts, error) {
	loc, err := im.GBP.FetchLocation(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	reviews, err := im.GBP.FetchReviewSummary(ctx, locationID)
	if err != nil {
		log.Printf("[import] gbp review summary unavailable: %v", err)
		result.SoftErrors = append(result.SoftErrors, err)
		reviews = nil
	}

	photos, err := im.GBP.FetchPhotoURLs(ctx, locationID)
	if err != nil {
		// Partial photo lists are kept; the scoring just sees fewer photos.
		log.Printf("[import] gbp photos cut short: %v", err)
		result.SoftErrors = append(result.SoftErrors, err)
	}

	return loc, normalizeGBP(loc, reviews, photos), nil
}
