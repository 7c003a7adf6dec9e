package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/fresnel/internal/optics"
)

type Options struct {
	Dir    string
	ASCII  bool
	PNG    bool
	SVG    bool
	Gray   bool
	Width  int
	Height int
	Out    io.Writer
}

// Sink renders each sweep result to the terminal and to image files under
// Dir, according to Options.
type Sink struct {
	opts  Options
	files []string
}

func NewSink(opts Options) *Sink {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 500
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Sink{opts: opts}
}

// Files lists every file written so far.
func (s *Sink) Files() []string { return s.files }

func (s *Sink) Profile(p *optics.Profile) error {
	if s.opts.ASCII {
		fmt.Fprintln(s.opts.Out, ProfileASCII(p, 72, 15))
	}
	base := "profile_z" + strconv.FormatFloat(p.Distance, 'g', 4, 64)

	if s.opts.PNG {
		img, err := ProfileImage(p, s.opts.Width, s.opts.Height)
		if err != nil {
			return err
		}
		if err := s.savePNG(base+".png", img); err != nil {
			return err
		}
	}
	if s.opts.SVG {
		xs, ys := p.XY()
		svg := ProfileSVG(xs, ys, s.opts.Width, s.opts.Height, "#00ff88")
		if err := s.write(base+".svg", []byte(svg)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) Map(m *optics.Map) error {
	if s.opts.ASCII {
		fmt.Fprint(s.opts.Out, MapASCII(m))
	}
	base := "map_z" + strconv.FormatFloat(m.Distance, 'g', 4, 64)

	if s.opts.PNG {
		img, err := MapImage(m, s.opts.Width, s.opts.Width)
		if err != nil {
			return err
		}
		if err := s.savePNG(base+".png", img); err != nil {
			return err
		}
	}
	if s.opts.Gray {
		img, err := Gray16(m.Intensity())
		if err != nil {
			return err
		}
		if err := s.savePNG(base+"_gray.png", img); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) path(name string) (string, error) {
	if err := os.MkdirAll(s.opts.Dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(s.opts.Dir, name), nil
}

func (s *Sink) savePNG(name string, img image.Image) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := SavePNG(path, img); err != nil {
		return err
	}
	s.files = append(s.files, path)
	return nil
}

func (s *Sink) write(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	s.files = append(s.files, path)
	return nil
}
