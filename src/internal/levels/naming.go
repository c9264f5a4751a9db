package levels

import (
	"fmt"
	"strconv"

	"github.com/valyala/fasttemplate"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/errors"
)

// Namer maps level ids to file names using the configured filename template.
type Namer struct {
	template *fasttemplate.Template
	width    int
}

// NewNamer compiles a filename template such as "level_{{id}}.json". The id
// is zero-padded to width digits; the sign of negative ids is kept.
func NewNamer(template string, width int) (*Namer, error) {
	t, err := fasttemplate.NewTemplate(template, "{{", "}}")
	if err != nil {
		return nil, errors.NewConfigError("invalid filename template "+strconv.Quote(template), err)
	}
	if width < 1 {
		width = 1
	}
	return &Namer{template: t, width: width}, nil
}

// NewDefaultNamer returns the namer producing level_NN.json.
func NewDefaultNamer() *Namer {
	n, err := NewNamer(config.DefaultFilenameTemplate, config.DefaultIDWidth)
	if err != nil {
		panic(err)
	}
	return n
}

// Filename returns the file name for the given level id.
func (n *Namer) Filename(id int) string {
	return n.template.ExecuteString(map[string]interface{}{
		config.FilenameTemplateID: fmt.Sprintf("%0*d", n.width, id),
	})
}

// ParseID parses a path segment as a level id.
func ParseID(segment string) (int, error) {
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, errors.NewBadRequestError(fmt.Sprintf("invalid level id %q", segment), err)
	}
	return id, nil
}
