package auth

import "time"

// NewFromConfig wires a codec, issuer, and verifier from a Config value so
// applications can hand over their settings container in one call. Zero
// values fall back to the package defaults.
func NewFromConfig(cfg Config, users UserStore, opts ...IssuerOption) (*TokenIssuer, *TokenVerifier) {
	codecOpts := []CodecOption{}
	if name := cfg.GetIssuer(); name != "" {
		codecOpts = append(codecOpts, WithCodecIssuer(name))
	}
	if skew := cfg.GetClockSkew(); skew > 0 {
		codecOpts = append(codecOpts, WithCodecLeeway(time.Duration(skew)*time.Second))
	}

	codec := NewHS256Codec([]byte(cfg.GetSigningKey()), codecOpts...)

	issuerOpts := []IssuerOption{WithIssuerName(cfg.GetIssuer())}
	if hours := cfg.GetTokenExpiration(); hours > 0 {
		issuerOpts = append(issuerOpts, WithTokenLifetime(time.Duration(hours)*time.Hour))
	}
	issuerOpts = append(issuerOpts, opts...)

	return NewTokenIssuer(users, codec, issuerOpts...), NewTokenVerifier(codec)
}
