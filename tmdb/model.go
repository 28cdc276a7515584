// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdb

import (
	"github.com/gogama/tmdbx/codec"
)

// Type identifiers of the models below, as registered by NewRegistry.
const (
	TypeCompany                 = "tmdb.company"
	TypeCompanyAlternativeNames = "tmdb.company_alternative_names"
	TypeConfiguration           = "tmdb.configuration"
)

// A Company is a production company.
type Company struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Headquarters  string   `json:"headquarters"`
	Homepage      string   `json:"homepage"`
	LogoPath      string   `json:"logo_path"`
	OriginCountry string   `json:"origin_country"`
	ParentCompany *Company `json:"parent_company"`
}

// An AlternativeName is another name a company is known by.
type AlternativeName struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type CompanyAlternativeNames struct {
	ID      int               `json:"id"`
	Results []AlternativeName `json:"results"`
}

// Configuration is the image part of the API configuration.
type Configuration struct {
	Images struct {
		BaseURL       string   `json:"base_url"`
		SecureBaseURL string   `json:"secure_base_url"`
		LogoSizes     []string `json:"logo_sizes"`
		PosterSizes   []string `json:"poster_sizes"`
	} `json:"images"`
	ChangeKeys []string `json:"change_keys"`
}

// NewRegistry returns a codec registry holding the built-in types and
// the models of this package.
func NewRegistry() *codec.Registry {
	r := codec.NewRegistry()
	codec.MustRegister[Company](r, TypeCompany)
	codec.MustRegister[CompanyAlternativeNames](r, TypeCompanyAlternativeNames)
	codec.MustRegister[Configuration](r, TypeConfiguration)
	return r
}
