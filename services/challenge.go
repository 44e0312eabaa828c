package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"alarmclock/overlay"
)

// ErrInvalidChallenge covers expired, forged and mismatched challenge tokens.
var ErrInvalidChallenge = errors.New("invalid or expired challenge")

type challengeClaims struct {
	AlarmID uint                  `json:"alarm_id"`
	Kind    overlay.ChallengeKind `json:"kind"`
	Sealed  string                `json:"sealed"`
	jwt.RegisteredClaims
}

// ChallengeSigner issues stateless dismiss challenges. The expected answer
// travels inside the token, sealed with the server secret, so a client
// holding the token cannot read it.
type ChallengeSigner struct {
	secret       []byte
	serverSecret string
	ttl          time.Duration
	now          func() time.Time
}

func NewChallengeSigner(jwtSecret, serverSecret string, ttl time.Duration) *ChallengeSigner {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ChallengeSigner{
		secret:       []byte(jwtSecret),
		serverSecret: serverSecret,
		ttl:          ttl,
		now:          time.Now,
	}
}

// WithClock replaces the signer's time source.
func (s *ChallengeSigner) WithClock(now func() time.Time) *ChallengeSigner {
	s.now = now
	return s
}

func (s *ChallengeSigner) Issue(alarmID uint, c overlay.Challenge) (string, error) {
	sealed, err := SealString(c.Answer, s.serverSecret)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := challengeClaims{
		AlarmID: alarmID,
		Kind:    c.Kind,
		Sealed:  sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(alarmID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Check reports whether answer solves the challenge in token. A token that
// is invalid or was issued for another alarm returns ErrInvalidChallenge.
func (s *ChallengeSigner) Check(tokenString string, alarmID uint, answer string) (bool, error) {
	claims := &challengeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return false, ErrInvalidChallenge
	}
	if claims.AlarmID != alarmID {
		return false, ErrInvalidChallenge
	}

	expected, err := OpenString(claims.Sealed, s.serverSecret)
	if err != nil {
		return false, ErrInvalidChallenge
	}
	return overlay.MatchAnswer(answer, expected), nil
}
