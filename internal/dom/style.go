package dom

// Property is a computed style property the extractor reads.
type Property string

const (
	Display         Property = "display"
	Visibility      Property = "visibility"
	Opacity         Property = "opacity"
	ZIndex          Property = "z-index"
	Position        Property = "position"
	Overflow        Property = "overflow"
	OverflowX       Property = "overflow-x"
	OverflowY       Property = "overflow-y"
	Transform       Property = "transform"
	BoxShadow       Property = "box-shadow"
	BackgroundColor Property = "background-color"
	BackgroundImage Property = "background-image"
	BackgroundSize  Property = "background-size"
	ObjectFit       Property = "object-fit"

	BorderTopWidth    Property = "border-top-width"
	BorderRightWidth  Property = "border-right-width"
	BorderBottomWidth Property = "border-bottom-width"
	BorderLeftWidth   Property = "border-left-width"
	BorderTopColor    Property = "border-top-color"
	BorderRightColor  Property = "border-right-color"
	BorderBottomColor Property = "border-bottom-color"
	BorderLeftColor   Property = "border-left-color"
	BorderTopStyle    Property = "border-top-style"
	BorderRightStyle  Property = "border-right-style"
	BorderBottomStyle Property = "border-bottom-style"
	BorderLeftStyle   Property = "border-left-style"
	BorderRadius      Property = "border-top-left-radius"

	Color          Property = "color"
	FontFamily     Property = "font-family"
	FontSize       Property = "font-size"
	FontWeight     Property = "font-weight"
	FontStyle      Property = "font-style"
	TextDecoration Property = "text-decoration-line"
	TextAlign      Property = "text-align"
	TextTransform  Property = "text-transform"
	LineHeight     Property = "line-height"
	LetterSpacing  Property = "letter-spacing"
	VerticalAlign  Property = "vertical-align"
	AlignItems     Property = "align-items"
	JustifyContent Property = "justify-content"
	FlexDirection  Property = "flex-direction"
	ListStyleType  Property = "list-style-type"

	PaddingTop    Property = "padding-top"
	PaddingRight  Property = "padding-right"
	PaddingBottom Property = "padding-bottom"
	PaddingLeft   Property = "padding-left"

	Width   Property = "width"
	Height  Property = "height"
	Content Property = "content"
)

// Properties lists every property a snapshot must capture, in a fixed order.
var Properties = []Property{
	Display, Visibility, Opacity, ZIndex, Position, Overflow, OverflowX, OverflowY,
	Transform, BoxShadow, BackgroundColor, BackgroundImage, BackgroundSize, ObjectFit,
	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth,
	BorderTopColor, BorderRightColor, BorderBottomColor, BorderLeftColor,
	BorderTopStyle, BorderRightStyle, BorderBottomStyle, BorderLeftStyle, BorderRadius,
	Color, FontFamily, FontSize, FontWeight, FontStyle, TextDecoration, TextAlign,
	TextTransform, LineHeight, LetterSpacing, VerticalAlign, AlignItems, JustifyContent,
	FlexDirection, ListStyleType,
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft,
	Width, Height, Content,
}

// Style is read-only access to computed style values.
type Style interface {
	Get(p Property) string
}

// StyleMap is a Style backed by a map. Missing properties read as "".
type StyleMap map[Property]string

// Get implements Style.
func (m StyleMap) Get(p Property) string { return m[p] }
