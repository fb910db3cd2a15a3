package shortener

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// recordVersion is written as the first element of every encoded link.
// Changing the layout of record requires a new version.
const recordVersion = 1

// record is the on-disk layout of a Link: a CBOR array with fixed field order.
type record struct {
	_ struct{} `cbor:",toarray"`

	Version     uint
	Identifier  []byte
	OriginalURL string
	ShortCode   string
	Aliases     []string
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		UTF8:             cbor.UTF8RejectInvalid,
		MaxArrayElements: 1 << 16,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// EncodeLink serializes a link into its stable binary form.
func EncodeLink(link *Link) ([]byte, error) {
	if link.OriginalURL == nil {
		return nil, wrap(ErrLinkEncoding, errors.New("missing original url"))
	}

	data, err := encMode.Marshal(record{
		Version:     recordVersion,
		Identifier:  link.Identifier[:],
		OriginalURL: link.OriginalURL.String(),
		ShortCode:   string(link.ShortCode),
		Aliases:     link.Aliases,
	})
	if err != nil {
		return nil, wrap(ErrLinkEncoding, err)
	}

	return data, nil
}

// DecodeLink parses bytes produced by EncodeLink.
func DecodeLink(data []byte) (*Link, error) {
	var rec record
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return nil, wrap(ErrLinkDecoding, err)
	}

	if rec.Version != recordVersion {
		return nil, wrap(ErrLinkDecoding, fmt.Errorf("unsupported record version %d", rec.Version))
	}

	id, err := uuid.FromBytes(rec.Identifier)
	if err != nil {
		return nil, wrap(ErrLinkDecoding, err)
	}

	u, err := url.Parse(rec.OriginalURL)
	if err != nil {
		return nil, wrap(ErrLinkDecoding, err)
	}

	return &Link{
		Identifier:  id,
		OriginalURL: u,
		ShortCode:   Code(rec.ShortCode),
		Aliases:     rec.Aliases,
	}, nil
}
