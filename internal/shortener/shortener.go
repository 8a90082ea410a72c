package shortener

import "github.com/sqids/sqids-go"

// Generated slugs must stay inside the lowercase URL-safe slug charset, so
// the default mixed-case sqids alphabet is narrowed here.
const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type Shortener struct {
	sqids *sqids.Sqids
}

func New() (*Shortener, error) {
	s, err := sqids.New(sqids.Options{
		Alphabet:  slugAlphabet,
		MinLength: 6,
	})
	if err != nil {
		return nil, err
	}
	return &Shortener{sqids: s}, nil
}

func (s *Shortener) Generate(id int64) (string, error) {
	return s.sqids.Encode([]uint64{uint64(id)})
}
