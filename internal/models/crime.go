package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// CrimeRecord is one geocoded incident location from the offline crime dataset
type CrimeRecord struct {
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	LocationString string     `json:"location_string"`
	FullAddress    string     `json:"full_address,omitempty"`
	IncidentType   string     `json:"incident_type,omitempty"`
	Timestamp      FlexString `json:"timestamp"`
}

// CrimeLocation is one entry of the geocoding job input
type CrimeLocation struct {
	LocationString string `json:"location_string"`
	IncidentType   string `json:"incident_type,omitempty"`
}

// FlexString accepts a JSON string or number and keeps its textual form.
// The geocoding job has written timestamps both as epoch seconds and as strings.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexStringFromFloat formats an epoch-seconds value the way the dataset stores it
func FlexStringFromFloat(v float64) FlexString {
	return FlexString(strconv.FormatFloat(v, 'f', -1, 64))
}
