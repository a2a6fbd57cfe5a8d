package capture

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
)

const wavHeaderSize = 44

// writeWAVFile writes the collected chunks as a PCM16 WAV file. The chunks
// are already little-endian samples, so the payload is copied verbatim.
func writeWAVFile(path string, cfg audio.StreamConfig, chunks [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	dataSize := 0
	for _, c := range chunks {
		dataSize += len(c)
	}

	blockAlign := uint16(cfg.Channels) * 2
	byteRate := uint32(cfg.SampleRate) * uint32(blockAlign)

	w := bufio.NewWriter(f)
	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(wavHeaderSize-8+dataSize))
	w.WriteString("WAVE")

	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(w, binary.LittleEndian, uint16(cfg.Channels))
	binary.Write(w, binary.LittleEndian, uint32(cfg.SampleRate))
	binary.Write(w, binary.LittleEndian, byteRate)
	binary.Write(w, binary.LittleEndian, blockAlign)
	binary.Write(w, binary.LittleEndian, uint16(16)) // bits per sample

	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, uint32(dataSize))
	for _, c := range chunks {
		w.Write(c)
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
