package jira

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/danielolaszy/ob/internal/apperr"
)

// DecodeCredential splits a base64 encoded "username:password" token.
// The password may itself contain colons.
func DecodeCredential(token string) (username, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", "", apperr.E(apperr.KindAuth, "decode credential", err)
	}
	if !utf8.Valid(raw) {
		return "", "", apperr.E(apperr.KindAuth, "decode credential", errors.New("credential is not valid UTF-8"))
	}

	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", apperr.E(apperr.KindAuth, "decode credential", errors.New(`missing ":" between username and password`))
	}
	return username, password, nil
}
