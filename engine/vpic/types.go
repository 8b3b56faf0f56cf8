// Package vpic is a read-only client for the NHTSA vPIC vehicle API. It
// covers the two endpoints the lookup wizard needs and validates every
// response before handing it to the engine.
package vpic

import (
	"errors"
	"fmt"
)

// DefaultBaseURL is the public vPIC host.
const DefaultBaseURL = "https://vpic.nhtsa.dot.gov/api"

// VehicleTypeCar is the only vehicle type the selector lists makes for.
const VehicleTypeCar = "car"

// ErrMalformedResponse marks a response body that does not match the
// expected schema. It is recoverable: callers treat it like a transport error.
var ErrMalformedResponse = errors.New("vpic: malformed response")

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vpic: unexpected status %d from %s", e.Code, e.URL)
}

// makesResponse is the envelope of GetMakesForVehicleType.
type makesResponse struct {
	Count   int         `json:"Count"`
	Message string      `json:"Message"`
	Results []makeEntry `json:"Results"`
}

type makeEntry struct {
	MakeID   int    `json:"MakeId"`
	MakeName string `json:"MakeName"`
}

// modelsResponse is the envelope of GetModelsForMakeIdYear.
type modelsResponse struct {
	Count   int          `json:"Count"`
	Message string       `json:"Message"`
	Results []modelEntry `json:"Results"`
}

type modelEntry struct {
	MakeID    int    `json:"Make_ID"`
	MakeName  string `json:"Make_Name"`
	ModelID   int    `json:"Model_ID"`
	ModelName string `json:"Model_Name"`
}
