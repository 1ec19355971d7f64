package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotVersion is written into every new backup document. Documents
// without a version field are the legacy export shape and are accepted
// as-is; the arrays are identical.
const SnapshotVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot is a point-in-time capture of the whole dataset, used for both
// local export files and the remote backup document.
type Snapshot struct {
	Version        int             `json:"version,omitempty"`
	Customers      []Customer      `json:"customers"`
	Vehicles       []Vehicle       `json:"vehicles"`
	Services       []ServiceLog    `json:"services"`
	ServiceParts   []ServicePart   `json:"serviceParts"`
	CommonServices []CommonService `json:"commonServices"`
	UserInfo       *UserInfo       `json:"userInfo"`
}

// ParseSnapshot decodes a backup document, accepting both the current
// versioned shape and the legacy unversioned one.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot document: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	return &snap, nil
}

// Marshal encodes the snapshot as an indented, versioned document.
func (s *Snapshot) Marshal() ([]byte, error) {
	s.Version = SnapshotVersion
	return json.MarshalIndent(s, "", "  ")
}
