package akahu

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-petr/akahu-finance/internal/domain"
)

// responseShape tags the layout of an accounts listing response.
type responseShape int

const (
	shapeUnknown responseShape = iota
	shapeList
	shapeItems
	shapeResult
)

func (s responseShape) String() string {
	switch s {
	case shapeList:
		return "list"
	case shapeItems:
		return "items"
	case shapeResult:
		return "result"
	}

	return "unknown"
}

type accountsResponse struct {
	shape    responseShape
	accounts []domain.Account
	skipped  []skippedAccount
}

// skippedAccount is a list element that could not be decoded as an account.
type skippedAccount struct {
	index int
	err   error
}

var errEmptyBody = errors.New("empty response body")

// parseAccounts decodes a bare array, or an object enveloping the array under
// "items" or, failing that, "result". Any other layout yields no accounts.
func parseAccounts(body []byte) (accountsResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return accountsResponse{}, errEmptyBody
	}

	switch body[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(body, &elems); err != nil {
			return accountsResponse{}, err
		}

		accounts, skipped := decodeEach(elems)

		return accountsResponse{shape: shapeList, accounts: accounts, skipped: skipped}, nil

	case '{':
		var envelope struct {
			Items  json.RawMessage `json:"items"`
			Result json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return accountsResponse{}, err
		}

		if r, ok, err := nonEmptyList(envelope.Items); ok || err != nil {
			r.shape = shapeItems
			return r, err
		}

		if r, ok, err := nonEmptyList(envelope.Result); ok || err != nil {
			r.shape = shapeResult
			return r, err
		}
	}

	if !json.Valid(body) {
		return accountsResponse{}, errors.New("invalid JSON response")
	}

	return accountsResponse{shape: shapeUnknown}, nil
}

// nonEmptyList decodes raw when it holds a non-empty array.
func nonEmptyList(raw json.RawMessage) (accountsResponse, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return accountsResponse{}, false, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return accountsResponse{}, false, err
	}

	accounts, skipped := decodeEach(elems)

	return accountsResponse{accounts: accounts, skipped: skipped}, len(elems) > 0, nil
}

// decodeEach decodes every element on its own so one malformed account does
// not hide the others.
func decodeEach(elems []json.RawMessage) ([]domain.Account, []skippedAccount) {
	accounts := make([]domain.Account, 0, len(elems))

	var skipped []skippedAccount

	for i, elem := range elems {
		var a domain.Account
		if err := json.Unmarshal(elem, &a); err != nil {
			skipped = append(skipped, skippedAccount{index: i, err: err})
			continue
		}

		accounts = append(accounts, a)
	}

	return accounts, skipped
}
