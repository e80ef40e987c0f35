package playfield

import "github.com/kaikogame/kaiko/render"

// Layout carves one terminal line into icon/header/content/footer
// slices separated by a single blank column each (spec.md §4.G).
type Layout struct {
	IconWidth, HeaderWidth, ContentWidth, FooterWidth int
}

func (l Layout) iconStart() int    { return 0 }
func (l Layout) headerStart() int  { return l.iconStart() + l.IconWidth + 1 }
func (l Layout) contentStart() int { return l.headerStart() + l.HeaderWidth + 1 }
func (l Layout) footerStart() int  { return l.contentStart() + l.ContentWidth + 1 }

// Width is the total line width the layout occupies.
func (l Layout) Width() int { return l.footerStart() + l.FooterWidth }

func (l Layout) IconMask() *render.Mask {
	return &render.Mask{Lo: l.iconStart(), Hi: l.iconStart() + l.IconWidth}
}

func (l Layout) HeaderMask() *render.Mask {
	return &render.Mask{Lo: l.headerStart(), Hi: l.headerStart() + l.HeaderWidth}
}

func (l Layout) ContentMask() *render.Mask {
	return &render.Mask{Lo: l.contentStart(), Hi: l.contentStart() + l.ContentWidth}
}

func (l Layout) FooterMask() *render.Mask {
	return &render.Mask{Lo: l.footerStart(), Hi: l.footerStart() + l.FooterWidth}
}

// ContentPos maps a fraction shift in [0, 1] to an absolute column inside
// the content region.
func (l Layout) ContentPos(shift float64) int {
	return l.contentStart() + int(shift*float64(l.ContentWidth))
}
