package aggpager

import (
	"strconv"

	"github.com/google/go-querystring/query"
	"github.com/samber/lo"
)

// PageURL composes a navigation link of the form
//
//	{url}?{rawQuery}&page={page}
//
// The "&" is only emitted when rawQuery is not empty. Nothing is escaped: url
// and rawQuery are concatenated exactly as given.
func PageURL(url, rawQuery string, page int) string {
	prefix := lo.Ternary(rawQuery != "", rawQuery+"&", "")

	return url + "?" + prefix + "page=" + strconv.Itoa(page)
}

// EncodeQuery encodes a struct with `url` tags into a query-string fragment
// suitable for Options.WithQuery. Any "page" key is dropped because the
// paginator appends its own.
//
// Example:
//
//	type filter struct {
//		Status string `url:"status,omitempty"`
//		Tags []string `url:"tag,omitempty"`
//	}
//	q, _ := EncodeQuery(filter{Status: "active"}) // "status=active"
func EncodeQuery(v any) (string, error) {
	values, err := query.Values(v)
	if err != nil {
		return "", err
	}

	values.Del("page")

	return values.Encode(), nil
}
