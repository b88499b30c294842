// SPDX-License-Identifier: GPL-2.0-or-later

package brush

import (
	"github.com/pkg/errors"
)

var (
	// ErrBrushIsNull means the faces do not enclose a bounded solid with
	// volume.
	ErrBrushIsNull = errors.New("brush is null")
	// ErrFaceIsRedundant means a face does not cut the brush.
	ErrFaceIsRedundant = errors.New("face is redundant")
	// ErrInvalidEdit is returned for edits that would change the brush in a
	// way the operation does not allow.
	ErrInvalidEdit = errors.New("edit would make the brush invalid")
	ErrOutOfBounds = errors.New("brush leaves the world bounds")
	// ErrSnapshotMismatch is returned when restoring a snapshot of another
	// brush.
	ErrSnapshotMismatch = errors.New("snapshot belongs to another brush")
)
