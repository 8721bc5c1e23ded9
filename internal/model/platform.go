package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Rating string

const (
	RatingBest Rating = "Best"
	RatingGood Rating = "Good"
	RatingOK   Rating = "OK"
)

// APISupport is either a plain yes/no or "Limited".
type APISupport string

const (
	APIYes     APISupport = "Yes"
	APINo      APISupport = "No"
	APILimited APISupport = "Limited"
)

func (a APISupport) MarshalText() ([]byte, error) {
	switch a {
	case APIYes:
		return []byte("true"), nil
	case APINo, "":
		return []byte("false"), nil
	}
	return []byte(a), nil
}

// UnmarshalText accepts true/false or "Limited".
func (a *APISupport) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.EqualFold(s, string(APILimited)) {
		*a = APILimited
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("api support must be a bool or %q, got %q", APILimited, s)
	}
	if v {
		*a = APIYes
	} else {
		*a = APINo
	}
	return nil
}

// MarshalJSON emits a JSON bool for yes/no and a string for "Limited".
func (a APISupport) MarshalJSON() ([]byte, error) {
	switch a {
	case APIYes:
		return []byte("true"), nil
	case APINo, "":
		return []byte("false"), nil
	}
	return json.Marshal(string(a))
}

func (a *APISupport) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return a.UnmarshalText([]byte(s))
	}
	return a.UnmarshalText(b)
}

// Platform is a broker in the comparison grid. Reference data only.
type Platform struct {
	Name       string     `yaml:"name" json:"name"`
	Rating     Rating     `yaml:"rating" json:"rating"`
	Commission string     `yaml:"commission" json:"commission"`
	SPXSupport bool       `yaml:"spx_support" json:"spx_support"`
	APISupport APISupport `yaml:"api_support" json:"api_support"`
	MinBalance string     `yaml:"min_balance" json:"min_balance"`
	SignupURL  string     `yaml:"signup_url" json:"signup_url"`
}
