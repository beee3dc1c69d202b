package application

import (
	"strings"
	"unicode/utf8"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

const DefaultChunkSize = 3800

// ChunkFragments packs fragments, in order, into segments of at most limit
// runes joined by the fragment separator. A fragment is only split when it
// alone exceeds limit.
func ChunkFragments(fragments []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkSize
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
		open    bool
	)
	flush := func() {
		if open {
			chunks = append(chunks, current.String())
			current.Reset()
			size, open = 0, false
		}
	}

	sep := utf8.RuneCountInString(domain.FragmentSeparator)
	for _, fragment := range fragments {
		n := utf8.RuneCountInString(fragment)
		if n > limit {
			flush()
			chunks = append(chunks, splitRunes(fragment, limit)...)
			continue
		}

		if open && size+sep+n > limit {
			flush()
		}
		if open {
			current.WriteString(domain.FragmentSeparator)
			size += sep
		}
		current.WriteString(fragment)
		size += n
		open = true
	}
	flush()

	return chunks
}

func splitRunes(s string, limit int) []string {
	runes := []rune(s)
	out := make([]string, 0, len(runes)/limit+1)
	for len(runes) > 0 {
		n := limit
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
