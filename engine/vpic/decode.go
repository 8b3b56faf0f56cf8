package vpic

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
)

// decodeMakes validates a GetMakesForVehicleType body. A missing or null
// Results array, a non-positive id or a blank name rejects the whole body.
func decodeMakes(r io.Reader) ([]domain.Make, error) {
	var resp makesResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: Results missing", ErrMalformedResponse)
	}
	makes := make([]domain.Make, 0, len(resp.Results))
	for i, e := range resp.Results {
		name := strings.TrimSpace(e.MakeName)
		if e.MakeID <= 0 || name == "" {
			return nil, fmt.Errorf("%w: make %d: id=%d name=%q", ErrMalformedResponse, i, e.MakeID, e.MakeName)
		}
		makes = append(makes, domain.Make{ID: e.MakeID, Name: name})
	}
	return makes, nil
}

// decodeModels validates a GetModelsForMakeIdYear body.
func decodeModels(r io.Reader) ([]domain.Model, error) {
	var resp modelsResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: Results missing", ErrMalformedResponse)
	}
	models := make([]domain.Model, 0, len(resp.Results))
	for i, e := range resp.Results {
		name := strings.TrimSpace(e.ModelName)
		if e.ModelID <= 0 || e.MakeID <= 0 || name == "" {
			return nil, fmt.Errorf("%w: model %d: make_id=%d model_id=%d name=%q",
				ErrMalformedResponse, i, e.MakeID, e.ModelID, e.ModelName)
		}
		models = append(models, domain.Model{
			MakeID:   e.MakeID,
			MakeName: strings.TrimSpace(e.MakeName),
			ID:       e.ModelID,
			Name:     name,
		})
	}
	return models, nil
}
