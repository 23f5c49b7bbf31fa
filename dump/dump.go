// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dump encodes condition snapshots for persistence. It realizes the
// producing side of the crash-dump contract: an external collaborator stores
// or ships the encoded form; this package only builds and serializes it.
package dump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"code.hybscloud.com/cond"
)

// Dump is the persisted form of a condition snapshot. Origin frames are
// deliberately absent: program counters do not survive the process, and
// trace rendering is the consumer's concern.
type Dump struct {
	ID                 string         `json:"id" yaml:"id"`
	CapturedAt         time.Time      `json:"captured_at" yaml:"captured_at"`
	Kind               string         `json:"kind" yaml:"kind"`
	Severity           string         `json:"severity,omitempty" yaml:"severity,omitempty"`
	Message            string         `json:"message" yaml:"message"`
	Payload            map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
	FrameIDs           []uint64       `json:"frame_ids" yaml:"frame_ids"`
	ActiveRestartNames []string       `json:"active_restart_names" yaml:"active_restart_names"`
}

// FromSnapshot builds a Dump from a snapshot, assigning a fresh dump ID and
// capture timestamp.
func FromSnapshot(snap cond.Snapshot) *Dump {
	return &Dump{
		ID:                 uuid.NewString(),
		CapturedAt:         time.Now().UTC(),
		Kind:               snap.Kind,
		Message:            snap.Message,
		Payload:            snap.Payload,
		FrameIDs:           snap.FrameIDs,
		ActiveRestartNames: snap.ActiveRestartNames,
	}
}

// FromUnhandled builds a Dump from an error returned by cond.Run, if that
// error carries an unhandled condition. The second return is false when err
// holds no *cond.UnhandledError anywhere in its chain.
func FromUnhandled(err error) (*Dump, bool) {
	var ue *cond.UnhandledError
	if !errors.As(err, &ue) {
		return nil, false
	}
	d := FromSnapshot(ue.Snapshot)
	d.Severity = ue.Condition.Severity().String()
	return d, true
}

// EncodeJSON writes the dump as a single JSON document.
func (d *Dump) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// EncodeYAML writes the dump as a single YAML document.
func (d *Dump) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(d)
}

// DecodeJSON reads a dump previously written by EncodeJSON.
func DecodeJSON(r io.Reader) (*Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("dump: decode json: %w", err)
	}
	return &d, nil
}

// DecodePayload decodes a condition's open payload mapping into a typed
// struct, matching fields by mapstructure tags or name.
func DecodePayload(c *cond.Condition, out any) error {
	if err := mapstructure.Decode(c.Payload(), out); err != nil {
		return fmt.Errorf("dump: decode payload: %w", err)
	}
	return nil
}
