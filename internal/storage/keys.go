package storage

import (
	"fmt"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	keyPrefix       = "skills/"
	maxArchiveStem  = 80
	defaultStemName = "skill"
	idAlphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength        = 21
)

var (
	unsafeNameChars = regexp.MustCompile(`[^a-z0-9\-_.]+`)
	repeatedDashes  = regexp.MustCompile(`-{2,}`)
)

var imageExtByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImageExt возвращает расширение для поддерживаемого типа изображения.
func ImageExt(contentType string) (string, bool) {
	ext, ok := imageExtByType[strings.ToLower(contentType)]
	return ext, ok
}

// ArchivePrefix — пространство архивов пользователя.
func ArchivePrefix(userID string) string {
	return keyPrefix + userID + "/"
}

// ImagePrefix — пространство изображений пользователя.
func ImagePrefix(userID string) string {
	return keyPrefix + userID + "/images/"
}

// NewArchiveKey строит ключ вида skills/{user}/{id}-{name}.zip.
func NewArchiveKey(userID, filename string) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s-%s.zip", ArchivePrefix(userID), id, SanitizeArchiveName(filename)), nil
}

// NewImageKey строит ключ вида skills/{user}/images/{id}.{ext}.
func NewImageKey(userID, contentType string) (string, error) {
	ext, ok := ImageExt(contentType)
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	id, err := newID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s.%s", ImagePrefix(userID), id, ext), nil
}

// SanitizeArchiveName приводит имя файла к безопасному фрагменту ключа.
func SanitizeArchiveName(filename string) string {
	name := strings.ToLower(strings.TrimSpace(filename))
	name = strings.TrimSuffix(name, ".zip")
	name = unsafeNameChars.ReplaceAllString(name, "-")
	name = repeatedDashes.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > maxArchiveStem {
		name = name[:maxArchiveStem]
	}
	if name == "" {
		return defaultStemName
	}
	return name
}

// OwnedBy проверяет, что ключ лежит внутри prefix и не выходит из него.
func OwnedBy(key, prefix string) bool {
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return false
	}
	rest := key[len(prefix):]
	return !strings.Contains(rest, "..") && !strings.HasPrefix(rest, "/")
}

func newID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
