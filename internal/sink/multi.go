// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import "github.com/pdiddy/paperscout/pkg/types"

// Appender is anything that takes one paper's records as a batch.
type Appender interface {
	Append(records []types.AuthorRecord) error
}

// Multi fans a batch out to several appenders in order, stopping at the
// first failure.
type Multi []Appender

func (m Multi) Append(records []types.AuthorRecord) error {
	for _, a := range m {
		if err := a.Append(records); err != nil {
			return err
		}
	}
	return nil
}
