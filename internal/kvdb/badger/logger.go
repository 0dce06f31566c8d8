// Copyright 2026 The Coffer Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"fmt"
	"strings"

	"gitlab.com/cofferchain/coffer/internal/logging"
)

// badgerLogger routes Badger's log output to the ledger's logger.
type badgerLogger struct {
	l logging.Logger
}

func (b badgerLogger) format(format string, args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error(b.format(format, args...))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Info(b.format(format, args...))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Info(b.format(format, args...))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug(b.format(format, args...))
}
