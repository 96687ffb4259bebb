package core

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/samber/oops"
)

const nasDateTimeLayout = "20060102150405"

// NasRequest is a decoded /ac request body. Fields holds every decoded key.
type NasRequest struct {
	Action      string
	UserID      string
	Password    string
	BranchCode  string
	ServiceType string
	Fields      map[string]string
}

// DecodeNasForm parses a NAS form body. Every value is base64 with '=' written as '*'.
func DecodeNasForm(body string) (NasRequest, error) {
	fields := make(map[string]string)
	for _, pair := range strings.Split(strings.TrimSpace(body), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.PathUnescape(rawKey)
		if err != nil {
			return NasRequest{}, oops.Code("NAS_FORM_INVALID").With("key", rawKey).Wrapf(err, "decode key")
		}
		value, err := url.PathUnescape(rawValue)
		if err != nil {
			return NasRequest{}, oops.Code("NAS_FORM_INVALID").With("key", key).Wrapf(err, "decode value")
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(value, "*", "="))
		if err != nil {
			return NasRequest{}, oops.Code("NAS_FORM_INVALID").With("key", key).Wrapf(err, "decode value")
		}
		fields[key] = string(decoded)
	}

	return NasRequest{
		Action:      fields["action"],
		UserID:      fields["userid"],
		Password:    fields["passwd"],
		BranchCode:  fields["gsbrcd"],
		ServiceType: fields["svc"],
		Fields:      fields,
	}, nil
}

// EncodeNasForm serializes a response, adding the datetime field.
// Keys are written in sorted order.
func EncodeNasForm(resp NasResponse, now time.Time) string {
	fields := resp.Fields()
	fields["datetime"] = now.UTC().Format(nasDateTimeLayout)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.ReplaceAll(base64.StdEncoding.EncodeToString([]byte(fields[k])), "=", "*"))
	}
	return b.String()
}

// NasReturnCode is the returncd value of a NAS response.
type NasReturnCode string

const (
	NasReturnSuccess                NasReturnCode = "001"
	NasReturnRegistrationSuccess    NasReturnCode = "002"
	NasReturnServiceLocationSuccess NasReturnCode = "007"
	NasReturnBadRequest             NasReturnCode = "100"
	NasReturnInternalServerError    NasReturnCode = "101"
	NasReturnUserAlreadyExists      NasReturnCode = "104"
	NasReturnUserNotFound           NasReturnCode = "204"
)

// NasResponse is anything the NAS endpoint can write back.
type NasResponse interface {
	ReturnCode() NasReturnCode
	Fields() map[string]string
}

// NasStatusResponse carries only a return code.
type NasStatusResponse struct {
	Code NasReturnCode
}

func (r NasStatusResponse) ReturnCode() NasReturnCode { return r.Code }

func (r NasStatusResponse) Fields() map[string]string {
	return map[string]string{"returncd": string(r.Code)}
}

// NasLoginResponse hands a GameSpy credential to the client.
type NasLoginResponse struct {
	Locator   string
	Token     string
	Challenge string
}

func (r NasLoginResponse) ReturnCode() NasReturnCode { return NasReturnSuccess }

func (r NasLoginResponse) Fields() map[string]string {
	return map[string]string{
		"returncd":  string(NasReturnSuccess),
		"locator":   r.Locator,
		"token":     r.Token,
		"challenge": r.Challenge,
		"retry":     "0",
	}
}

// NasServiceLocationResponse hands a credential for a located service.
type NasServiceLocationResponse struct {
	StatusData  bool
	ServiceHost string
	Token       string
}

func (r NasServiceLocationResponse) ReturnCode() NasReturnCode { return NasReturnServiceLocationSuccess }

func (r NasServiceLocationResponse) Fields() map[string]string {
	status := "N"
	if r.StatusData {
		status = "Y"
	}
	return map[string]string{
		"returncd":     string(NasReturnServiceLocationSuccess),
		"statusdata":   status,
		"svchost":      r.ServiceHost,
		"servicetoken": r.Token,
		"token":        r.Token,
	}
}
