// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"net/http"
	"strings"

	"github.com/netapp/storage-api/config"
)

// Authorizer answers whether the caller of r belongs to group.
type Authorizer interface {
	IsMember(r *http.Request, group string) bool
}

// HeaderAuthorizer trusts a comma-separated group list set by the authenticating proxy.
type HeaderAuthorizer struct {
	Header string
}

func NewHeaderAuthorizer(header string) *HeaderAuthorizer {
	if header == "" {
		header = config.DefaultGroupHeader
	}
	return &HeaderAuthorizer{Header: header}
}

func (a *HeaderAuthorizer) IsMember(r *http.Request, group string) bool {
	if group == "" {
		return false
	}
	for _, value := range r.Header.Values(a.Header) {
		for _, member := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(member), group) {
				return true
			}
		}
	}
	return false
}

// AuthorizerFunc adapts a plain function to Authorizer.
type AuthorizerFunc func(r *http.Request, group string) bool

func (f AuthorizerFunc) IsMember(r *http.Request, group string) bool {
	return f(r, group)
}
