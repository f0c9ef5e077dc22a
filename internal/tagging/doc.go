// Package tagging writes metadata to downloaded audio files and runs the
// artwork post-process. [Writer] picks the tag format from the file
// extension (ID3v2 for mp3, MP4 atoms for m4a); [ArtworkStage] pairs loose
// artwork images with audio files and embeds them via an external ffmpeg mux.
package tagging
