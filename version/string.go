// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

import (
	"fmt"
	"runtime"
	"strings"
)

// String is displayed when CLI arg --version is used
var String string

func init() {
	format := "%s/%s [go=%s"
	args := []interface{}{
		Client,
		Current,
		strings.TrimPrefix(runtime.Version(), "go"),
	}
	if GitCommit != "" {
		format += ", commit=%s"
		args = append(args, GitCommit)
	}
	format += "]\n"
	String = fmt.Sprintf(format, args...)
}
