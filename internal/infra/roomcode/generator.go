// Package roomcode issues short, human-friendly session ids.
package roomcode

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const defaultLength = 6

// LivenessChecker reports whether a code is already live somewhere in the cluster.
type LivenessChecker interface {
	Live(ctx context.Context, sessionID string) (bool, error)
}

// Generator derives room codes from random UUIDs.
type Generator struct {
	length int
	live   LivenessChecker
}

// NewGenerator returns a generator of codes with the given length (6 when not positive).
// live may be nil.
func NewGenerator(length int, live LivenessChecker) *Generator {
	if length <= 0 || length > 32 {
		length = defaultLength
	}
	return &Generator{length: length, live: live}
}

// NewCode implements app.RoomCodeGenerator.
func (g *Generator) NewCode(ctx context.Context) (string, error) {
	for {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:g.length])
		if g.live == nil {
			return code, nil
		}
		taken, err := g.live.Live(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
}

// NewPlayerID returns an id for players that connect without one.
func NewPlayerID() string {
	return uuid.NewString()
}
