package tui

// BoxType holds the CP437 line-drawing ordinals for one border style
type BoxType struct {
	Blank byte
	Horiz byte
	Vert  byte
	TL    byte
	BL    byte
	TR    byte
	BR    byte

	ScrollbarTop    byte
	ScrollbarBottom byte
	ScrollbarCenter byte

	ScrollbarCenterBlock byte
	ScrollbarBottomBlock byte
	ScrollbarTopBlock    byte
}

// BoxDouble borders with double lines: ╔═╗║╚╝
var BoxDouble = BoxType{
	Blank: ' ',
	Horiz: 0xcd,
	Vert:  0xba,
	TL:    0xc9,
	BL:    0xc8,
	TR:    0xbb,
	BR:    0xbc,

	ScrollbarTop:    0xd2,
	ScrollbarBottom: 0xd0,
	ScrollbarCenter: 0xf0,

	ScrollbarCenterBlock: 0xdb,
	ScrollbarBottomBlock: 0xdc,
	ScrollbarTopBlock:    0xdf,
}

// BoxSingle borders with single lines: ┌─┐│└┘
var BoxSingle = BoxType{
	Blank: ' ',
	Horiz: 0xc4,
	Vert:  0xb3,
	TL:    0xda,
	BL:    0xc0,
	TR:    0xbf,
	BR:    0xd9,

	ScrollbarTop:    0xd1,
	ScrollbarBottom: 0xcf,
	ScrollbarCenter: 0xd8,

	ScrollbarCenterBlock: 0xdb,
	ScrollbarBottomBlock: 0xdc,
	ScrollbarTopBlock:    0xdf,
}
