// Copyright 2022 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package addr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

// ParseFormattedISD parses an ISD number formatted with the same options, for
// example the "ISD1" directory of a generated tree.
func ParseFormattedISD(isd string, opts ...FormatOption) (ISD, error) {
	o := applyFormatOptions(opts)
	if o.defaultPrefix {
		trimmed, ok := strings.CutPrefix(isd, "ISD")
		if !ok {
			return 0, serrors.New("prefix is missing", "prefix", "ISD", "value", isd)
		}
		isd = trimmed
	}
	return ParseISD(isd)
}

// ParseFormattedAS parses an AS number formatted with FormatAS and the same
// options.
func ParseFormattedAS(a string, opts ...FormatOption) (AS, error) {
	o := applyFormatOptions(opts)
	if o.defaultPrefix {
		trimmed, ok := strings.CutPrefix(a, "AS")
		if !ok {
			return 0, serrors.New("prefix is missing", "prefix", "AS", "value", a)
		}
		a = trimmed
	}
	return parseAS(a, o.separator)
}

// FormatAS formats the AS number. BGP ASes are decimal, all others are
// separated hex groups.
func FormatAS(a AS, opts ...FormatOption) string {
	o := applyFormatOptions(opts)
	s := fmtAS(a, o.separator)
	if o.defaultPrefix {
		return "AS" + s
	}
	return s
}

func fmtAS(a AS, sep string) string {
	if !a.inRange() {
		return fmt.Sprintf("%d [Illegal AS: larger than %d]", a, MaxAS)
	}
	if a <= MaxBGPAS {
		return strconv.FormatUint(uint64(a), 10)
	}
	groups := make([]string, 0, asParts)
	for i := asParts - 1; i >= 0; i-- {
		shift := uint(asPartBits * i)
		groups = append(groups, strconv.FormatUint(uint64(a>>shift)&asPartMask, asPartBase))
	}
	return strings.Join(groups, sep)
}

// FormatOption configures how ISD and AS numbers are formatted and parsed.
type FormatOption = func(*formatOptions)

type formatOptions struct {
	defaultPrefix bool
	separator     string
}

func applyFormatOptions(opts []FormatOption) formatOptions {
	o := formatOptions{separator: ":"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDefaultPrefix adds the "ISD" or "AS" prefix of directory names.
func WithDefaultPrefix() FormatOption {
	return func(o *formatOptions) {
		o.defaultPrefix = true
	}
}

// WithFileSeparator separates the hex groups of an AS with underscores, as
// in file and directory names.
func WithFileSeparator() FormatOption {
	return func(o *formatOptions) {
		o.separator = "_"
	}
}
