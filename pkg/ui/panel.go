package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	padding      = 10
	titleHeight  = 28
	headerHeight = 24
	scrollStep   = 20
)

var (
	panelColor  = color.RGBA{R: 40, G: 40, B: 45, A: 230}
	borderColor = color.RGBA{R: 100, G: 100, B: 110, A: 255}
	headerColor = color.RGBA{R: 60, G: 60, B: 70, A: 255}
)

// Section is a titled group of widgets.
type Section struct {
	Title   string
	widgets []Widget
}

func (s *Section) add(w Widget) { s.widgets = append(s.widgets, w) }

func (s *Section) Slider(label string, minValue, maxValue, value float64) *Slider {
	sl := &Slider{Label: label, Min: minValue, Max: maxValue, Value: value}
	s.add(sl)
	return sl
}

func (s *Section) Checkbox(label string, value bool, swatch color.RGBA) *Checkbox {
	c := &Checkbox{Label: label, Value: value, Swatch: swatch}
	s.add(c)
	return c
}

func (s *Section) Button(label string, onClick func()) *Button {
	b := &Button{Label: label, OnClick: onClick}
	s.add(b)
	return b
}

// Panel is the viewer's side bar. Widgets that do not fit scroll with the
// mouse wheel while the cursor is over the panel.
type Panel struct {
	Title string

	x, y, width, height float64
	sections            []*Section
	scroll              float64
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{Title: title, x: x, y: y, width: width, height: height}
}

// Section appends a new group at the bottom of the panel.
func (p *Panel) Section(title string) *Section {
	s := &Section{Title: title}
	p.sections = append(p.sections, s)
	return s
}

// Contains reports whether the cursor is over the panel.
func (p *Panel) Contains(mx, my int) bool {
	return hit(p.x, p.y, p.width, p.height, mx, my)
}

// walk places every widget for the current scroll, hands each visible
// section header and widget to the callbacks, and returns the content height.
func (p *Panel) walk(header func(s *Section, y float64), widget func(w Widget)) float64 {
	y := p.y + titleHeight - p.scroll
	top := y
	for _, s := range p.sections {
		if header != nil && p.visible(y, headerHeight) {
			header(s, y)
		}
		y += headerHeight
		for _, w := range s.widgets {
			w.place(p.x+padding, y, p.width-2*padding)
			if widget != nil && p.visible(y, w.Height()) {
				widget(w)
			}
			y += w.Height()
		}
	}
	return y - top
}

// visible reports whether a slot lies entirely below the title and above
// the bottom border.
func (p *Panel) visible(y, h float64) bool {
	return y >= p.y+titleHeight && y+h <= p.y+p.height
}

func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(ebiten.CursorPosition()) {
		content := p.walk(nil, nil)
		maxScroll := max(content-(p.height-titleHeight), 0)
		p.scroll = min(max(p.scroll-dy*scrollStep, 0), maxScroll)
	}
	p.walk(nil, func(w Widget) { w.Update() })
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.x), float32(p.y), float32(p.width), float32(p.height), panelColor, true)
	vector.StrokeRect(screen, float32(p.x), float32(p.y), float32(p.width), float32(p.height), 2, borderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.x+padding), int(p.y+6))

	p.walk(func(s *Section, y float64) {
		vector.FillRect(screen, float32(p.x+5), float32(y), float32(p.width-10), headerHeight-4, headerColor, true)
		ebitenutil.DebugPrintAt(screen, s.Title, int(p.x+padding), int(y+2))
	}, func(w Widget) { w.Draw(screen) })
}
