// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fileops

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/u-root/u-root/pkg/core"
	coremkdir "github.com/u-root/u-root/pkg/core/mkdir"
	corerm "github.com/u-root/u-root/pkg/core/rm"
	coretouch "github.com/u-root/u-root/pkg/core/touch"
)

// runCoreCommand runs an in-process u-root core command with empty stdin and
// returns its stdout. Stderr is folded into the returned error.
func runCoreCommand(ctx context.Context, cmd core.Command, args []string) (string, error) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.SetIO(strings.NewReader(""), &stdout, &stderr)

	workdir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %v", err)
	}
	cmd.SetWorkingDir(workdir)

	if err := cmd.RunContext(ctx, args...); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", fmt.Errorf("%v: %s", err, errMsg)
		}
		return "", err
	}

	return stdout.String(), nil
}

func makeDirAll(ctx context.Context, path string) error {
	_, err := runCoreCommand(ctx, coremkdir.New(), []string{"-p", path})
	return err
}

func touchFile(ctx context.Context, path string) error {
	_, err := runCoreCommand(ctx, coretouch.New(), []string{path})
	return err
}

func removePath(ctx context.Context, path string, recursive bool) error {
	args := []string{path}
	if recursive {
		args = []string{"-r", path}
	}
	_, err := runCoreCommand(ctx, corerm.New(), args)
	return err
}
