// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-circom/pkg/util/source"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Print a syntax error with appropriate highlighting.  The highlight is
// coloured when stderr is an actual terminal.
func printSyntaxError(err *source.SyntaxError) {
	var (
		span = err.Span()
		line = err.FirstEnclosingLine()
		//
		lineOffset = span.Start() - line.Start()
		// Calculate length (ensures don't overflow line)
		length = max(1, min(line.Length()-lineOffset, span.Length()))
	)
	// Print error + line number
	fmt.Fprintf(os.Stderr, "%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print line
	fmt.Fprintln(os.Stderr, line.String())
	// Print indent (todo: account for tabs)
	fmt.Fprint(os.Stderr, strings.Repeat(" ", lineOffset))
	// Print highlight
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", strings.Repeat("^", length))
	} else {
		fmt.Fprintln(os.Stderr, strings.Repeat("^", length))
	}
}
