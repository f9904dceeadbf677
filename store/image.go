package store

// Image flags pack three signed periodic-wrap counts into one integer, 10
// bits per axis, each stored with an offset of ImgMax.
const (
	ImgBits  = 10
	Img2Bits = 20
	ImgMask  = 1023
	ImgMax   = 512
)

// EncodeImage packs wrap counts into an image integer. Counts must lie in
// [-ImgMax, ImgMax).
func EncodeImage(ix, iy, iz int) int64 {
	return int64(iz+ImgMax)<<Img2Bits |
		int64((iy+ImgMax)&ImgMask)<<ImgBits |
		int64((ix+ImgMax)&ImgMask)
}

// DecodeImage unpacks an image integer into its three wrap counts.
func DecodeImage(img int64) (ix, iy, iz int) {
	ix = int(img&ImgMask) - ImgMax
	iy = int(img>>ImgBits&ImgMask) - ImgMax
	iz = int(img>>Img2Bits) - ImgMax
	return ix, iy, iz
}

// CenteredImage is the image of a particle which has never wrapped.
func CenteredImage() int64 { return EncodeImage(0, 0, 0) }
