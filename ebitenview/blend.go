package ebitenview

import "github.com/hajimehoshi/ebiten/v2"

// blendMask keeps the destination only where the source has alpha. It is
// how a mask image clips a layer or intersects another mask.
var blendMask = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorZero,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
	BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// blendErase punches the source's alpha out of the destination.
var blendErase = ebiten.BlendDestinationOut
