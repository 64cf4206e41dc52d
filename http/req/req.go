package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/outpost"
)

// A Parser decodes and validates request payloads.
// A Parser is safe for concurrent use.
type Parser struct {
	query *schema.Decoder
	validator
}

// NewParser constructs a Parser.
func NewParser() *Parser {
	return &Parser{
		query:     newQueryParamDecoder(),
		validator: newValidator(),
	}
}

// ParseBody decodes the JSON in body into structPtr,
// then validates it.
//
// ParseBody consumes body.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("%w: ParseBody called with non-pointer: %s", outpost.ErrUnexpected, err)
	}

	if err != nil {
		return fmt.Errorf("%w: failed decoding request body: %s", outpost.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("%T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes the URL-encoded form r posts into structPtr according to its "schema" struct tags,
// then validates it.
func (p *Parser) ParseForm(r *http.Request, structPtr any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: failed parsing form: %s", outpost.ErrBadFormat, err)
	}

	return p.ParseQueryParams(r.PostForm, structPtr)
}

// ParseQueryParams decodes params into structPtr according to its "schema" struct tags,
// then validates it.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.query.Decode(structPtr, params); err != nil {
		return fmt.Errorf("failed decoding query params: %w", translateDecoderError(err))
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("%T failed validation: %w", structPtr, err)
	}

	return nil
}
