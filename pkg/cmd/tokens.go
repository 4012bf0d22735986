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

	"github.com/consensys/go-circom/pkg/circom"
	"github.com/consensys/go-circom/pkg/util/source"
	"github.com/consensys/go-circom/pkg/util/source/lex"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] source_file...",
	Short: "dump the token stream of one or more circom source files.",
	Long: `Tokenize a given set of circom source files and print the
resulting token stream, one token per line.  By default whitespace and
comment tokens are filtered out, as the parser sees them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		all := GetFlag(cmd, "all")
		// Read in source files
		srcfiles := readSourceFiles(args...)
		//
		for i := range srcfiles {
			var tokens []lex.Token
			//
			if all {
				tokens = circom.LexAll(srcfiles[i])
			} else {
				tokens = circom.Lex(srcfiles[i])
			}
			//
			for _, t := range tokens {
				span := t.Span
				fmt.Printf("%d:%d\t%s\t%q\n", span.Start(), span.End(),
					circom.KindName(t.Kind), srcfiles[i].Text(span))
			}
		}
	},
}

// Read a given set of source files, exiting on failure.
func readSourceFiles(filenames ...string) []source.File {
	srcfiles, err := source.ReadFiles(filenames...)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return srcfiles
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().Bool("all", false, "include whitespace and comment tokens")
}
