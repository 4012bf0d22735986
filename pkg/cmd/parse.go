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
	"encoding/json"
	"fmt"
	"os"

	"github.com/consensys/go-circom/pkg/circom"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] source_file...",
	Short: "parse one or more circom source files.",
	Long: `Parse a given set of circom source files, reporting any syntax
errors encountered.  Parsing continues past errors, so all diagnostics
in a file are reported in one pass.`,
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
		jsonOut := GetFlag(cmd, "json")
		errcount := 0
		// Read in source files
		srcfiles := readSourceFiles(args...)
		//
		for i := range srcfiles {
			circuit, _, errs := circom.Parse(&srcfiles[i])
			//
			log.Debugf("parsed %s: %d top-level statements, %d diagnostics",
				srcfiles[i].Filename(), len(circuit.Stmts), len(errs))
			//
			for _, err := range errs {
				printSyntaxError(&err)
			}
			//
			errcount += len(errs)
			// Dump the tree (if requested)
			if jsonOut {
				bytes, err := json.MarshalIndent(circuit, "", "  ")
				if err != nil {
					fmt.Println(err)
					os.Exit(2)
				}
				//
				fmt.Println(string(bytes))
			}
		}
		//
		if errcount > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("json", false, "dump the syntax tree as JSON")
}
