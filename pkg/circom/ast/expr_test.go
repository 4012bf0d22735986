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
package ast

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/go-circom/pkg/util/assert"
)

func TestNumberFieldElement_01(t *testing.T) {
	var expected fr.Element
	//
	expected.SetUint64(42)
	//
	actual := NewNumber(big.NewInt(42)).FieldElement()
	assert.True(t, actual.Equal(&expected))
}

func TestNumberFieldElement_02(t *testing.T) {
	// Literals at or above the field modulus reduce into the field.
	number := NewNumber(fr.Modulus())
	actual := number.FieldElement()
	//
	assert.True(t, actual.IsZero())
	// The literal itself is untouched.
	assert.Equal(t, 0, number.Value.Cmp(fr.Modulus()))
}

func TestOpStrings(t *testing.T) {
	assert.Equal(t, "**", POW.String())
	assert.Equal(t, "\\", QUO.String())
	assert.Equal(t, "||", OR.String())
	assert.Equal(t, "~", BNOT.String())
	assert.Equal(t, "<=", LTEQ.String())
	assert.Equal(t, "<==", WIRE_LEFT_SAFE.String())
}
