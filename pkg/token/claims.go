package token

import (
	"encoding/json"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
)

func claimsFromMap(in jwtgo.MapClaims) Claims {
	return Claims{
		Subject:   claimString(in, "sub"),
		Roles:     claimStrings(in, rolesClaim),
		JTI:       claimString(in, "jti"),
		IssuedAt:  claimUnixTime(in["iat"]),
		ExpiresAt: claimUnixTime(in["exp"]),
	}
}

func claimString(in jwtgo.MapClaims, key string) string {
	v, _ := in[key].(string)
	return v
}

func claimStrings(in jwtgo.MapClaims, key string) []string {
	raw, ok := in[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func claimUnixTime(v any) time.Time {
	switch t := v.(type) {
	case float64:
		return time.Unix(int64(t), 0).UTC()
	case int64:
		return time.Unix(t, 0).UTC()
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return time.Time{}
		}
		return time.Unix(i, 0).UTC()
	default:
		return time.Time{}
	}
}
