// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date parsed from a DA value
type Date struct {
	Year  int `yaml:"year" json:"year"`
	Month int `yaml:"month" json:"month"`
	Day   int `yaml:"day" json:"day"`
}

// Time is a time of day parsed from a TM value. Components missing from the value are nil.
type Time struct {
	Hours             int  `yaml:"hours" json:"hours"`
	Minutes           *int `yaml:"minutes,omitempty" json:"minutes,omitempty"`
	Seconds           *int `yaml:"seconds,omitempty" json:"seconds,omitempty"`
	FractionalSeconds *int `yaml:"fractionalSeconds,omitempty" json:"fractionalSeconds,omitempty"`
}

// ParseDA parses a DA value of the form YYYYMMDD. nil is returned for empty or invalid values.
func ParseDA(s string) *Date {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil
	}
	return &Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseTM parses a TM value of the form HH[MM[SS[.FFFFFF]]]. Fractional seconds are scaled to
// microseconds. nil is returned for empty or invalid values.
func ParseTM(s string) *Time {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil
	}

	hours, ok := timeComponent(s[0:2], 23)
	if !ok {
		return nil
	}
	tm := &Time{Hours: hours}

	if len(s) >= 4 {
		minutes, ok := timeComponent(s[2:4], 59)
		if !ok {
			return nil
		}
		tm.Minutes = &minutes
	}

	if len(s) >= 6 {
		// 60 allows for leap seconds
		seconds, ok := timeComponent(s[4:6], 60)
		if !ok {
			return nil
		}
		tm.Seconds = &seconds
	}

	if len(s) > 7 && s[6] == '.' {
		frac := s[7:]
		if len(frac) > 6 {
			frac = frac[:6]
		}
		v, err := strconv.Atoi(frac)
		if err != nil || v < 0 {
			return nil
		}
		micros := v * int(math.Pow10(6-len(frac)))
		tm.FractionalSeconds = &micros
	}

	return tm
}

func timeComponent(s string, limit int) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	v := int(s[0]-'0')*10 + int(s[1]-'0')
	return v, v <= limit
}
