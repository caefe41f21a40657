// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var ErrIsDirectory = errors.New("is a directory")
