package randstr

import (
	"math/rand"
	"time"
)

type Generator struct {
	letters []byte
	rnd     *rand.Rand
}

func New(letters []byte) *Generator {
	return &Generator{
		letters: letters,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = g.letters[g.rnd.Intn(len(g.letters))]
	}

	return string(b)
}
