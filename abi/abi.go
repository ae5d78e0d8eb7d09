// Copyright (C) 2026 Huff Language Contributors
// This file is part of huffc
//
// huffc is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// huffc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with huffc.  If not, see <https://www.gnu.org/licenses/>.

// Package abi computes canonical Solidity signatures, 4-byte selectors and
// event topic hashes for the __FUNC_SIG, __ERROR and __EVENT_HASH builtins.
package abi

import (
	"strings"

	"golang.org/x/crypto/sha3"
)

// typeAliases maps shorthand elementary types to their canonical forms.
var typeAliases = map[string]string{
	"uint":   "uint256",
	"int":    "int256",
	"fixed":  "fixed128x18",
	"ufixed": "ufixed128x18",
	"byte":   "bytes1",
}

// NormalizeType canonicalizes an elementary type name. Array suffixes are the
// parser's concern; only the base name is rewritten here.
func NormalizeType(name string) string {
	if canonical, ok := typeAliases[name]; ok {
		return canonical
	}
	return name
}

// Signature builds the canonical signature string, e.g.
// "transfer(address,uint256)". The argument types must already be canonical.
func Signature(name string, args []string) string {
	return name + "(" + strings.Join(args, ",") + ")"
}

// Keccak256 returns the legacy Keccak-256 digest of data.
func Keccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Selector returns the first four bytes of the Keccak-256 hash of the
// canonical signature. Used for function and custom-error selectors.
func Selector(name string, args []string) [4]byte {
	digest := Keccak256([]byte(Signature(name, args)))
	var sel [4]byte
	copy(sel[:], digest[:4])
	return sel
}

// EventTopic returns the full Keccak-256 hash of the canonical event
// signature.
func EventTopic(name string, args []string) [32]byte {
	return Keccak256([]byte(Signature(name, args)))
}
