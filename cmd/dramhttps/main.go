// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/operation"
)

func main() {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	ctx := zlog.WithContext(context.Background())

	os.Exit(execute(ctx, os.Args[1:], os.Stdout))
}

// execute runs the command line and returns the process exit code:
// 0 for no-op or success, 2 for a warning, 1 for any error.
func execute(ctx context.Context, args []string, out io.Writer) int {
	o := newRootOpts(ctx, out)
	rootCmd := newRootCmd(o)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		name := rootCmd.Name()
		if cmd != nil {
			name = cmd.Name()
		}
		o.UserLogger.LogFailure(operation.Mode(name), err)
		return 1
	}
	return o.ExitCode
}
