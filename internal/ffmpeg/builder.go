package ffmpeg

// Build constructs the complete argument slice (binary first) for converting
// inputPath to outputPath with the given audio codec:
//
//	<bin> -y -i <input> -acodec <codec> -c:v copy -hide_banner -loglevel error <output>
//
// "-c:v copy" keeps embedded cover art and any video stream untouched.
func Build(bin, inputPath, codec, outputPath string) []string {
	args := make([]string, 0, 12)

	// --- Preamble and input ---
	args = append(args, bin, "-y", "-i", inputPath)

	// --- Codecs ---
	args = append(args, "-acodec", codec, "-c:v", "copy")

	// --- Verbosity ---
	args = append(args, "-hide_banner", "-loglevel", "error")

	// --- Output ---
	args = append(args, outputPath)

	return args
}
