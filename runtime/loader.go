package runtime

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/samber/lo"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// CensoredData is the merged word list plus the languages it came from.
type CensoredData struct {
	Words     []string
	Languages []string
}

// CensoredLoader reads word lists, one word per line, one file per language ("fr.txt").
type CensoredLoader struct {
	fs fs.FS
}

func NewCensoredLoader(f fs.FS) *CensoredLoader {
	return &CensoredLoader{fs: f}
}

// NewEmbeddedCensoredLoader uses the word lists compiled into the binary.
func NewEmbeddedCensoredLoader() *CensoredLoader {
	return NewCensoredLoader(censoredFolder)
}

// LoadAll merges every .txt file of dir, skipping blank lines and duplicates.
func (l *CensoredLoader) LoadAll(dir string) (CensoredData, error) {
	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		return CensoredData{}, err
	}

	var data CensoredData
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		data.Languages = append(data.Languages, strings.TrimSuffix(entry.Name(), ".txt"))

		content, err := fs.ReadFile(l.fs, path.Join(dir, entry.Name()))
		if err != nil {
			return CensoredData{}, err
		}
		// Scanner handles \n and \r\n alike
		scanner := bufio.NewScanner(bytes.NewReader(content))
		for scanner.Scan() {
			if word := strings.TrimSpace(scanner.Text()); word != "" {
				data.Words = append(data.Words, word)
			}
		}
		if err = scanner.Err(); err != nil {
			return CensoredData{}, err
		}
	}

	data.Words = lo.Uniq(data.Words)
	if len(data.Words) == 0 {
		return CensoredData{}, errors.ErrEmptyWords
	}
	return data, nil
}
