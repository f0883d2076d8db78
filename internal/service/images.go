package service

import (
	"SkillHub/internal/model"
	"SkillHub/internal/storage"
	"strings"
)

// MergeImageKeys собирает итоговый список изображений: сохранённые клиентом ключи
// (только из текущих, без повторов, в порядке клиента), затем новые, не больше MaxImages.
func MergeImageKeys(current, kept, added []string) []string {
	out := keptImages(current, kept)
	for _, k := range added {
		if len(out) >= model.MaxImages {
			break
		}
		out = append(out, k)
	}
	return out
}

// ImageSlots — сколько новых изображений ещё поместится после сохранённых.
func ImageSlots(current, kept []string) int {
	n := model.MaxImages - len(keptImages(current, kept))
	if n < 0 {
		return 0
	}
	return n
}

func keptImages(current, kept []string) []string {
	allowed := make(map[string]struct{}, len(current))
	for _, k := range current {
		allowed[k] = struct{}{}
	}
	out := make([]string, 0, model.MaxImages)
	seen := make(map[string]struct{}, len(kept))
	for _, k := range kept {
		if _, ok := allowed[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if len(out) < model.MaxImages {
			out = append(out, k)
		}
	}
	return out
}

// checkImageKeys чистит список и проверяет пространство ключей автора.
func checkImageKeys(authorID string, keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if !storage.OwnedBy(k, storage.ImagePrefix(authorID)) {
			return nil, validationErr("Invalid image key")
		}
		out = append(out, k)
	}
	if len(out) > model.MaxImages {
		return nil, validationErr("Too many images")
	}
	return out, nil
}

// archiveKeyOwned: архив лежит в пространстве автора, но не среди его изображений.
func archiveKeyOwned(authorID, key string) bool {
	return storage.OwnedBy(key, storage.ArchivePrefix(authorID)) &&
		!storage.OwnedBy(key, storage.ImagePrefix(authorID))
}

func sameMembership(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return len(subtract(a, b)) == 0 && len(subtract(b, a)) == 0
}

// subtract — элементы a, которых нет в b.
func subtract(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, k := range b {
		in[k] = struct{}{}
	}
	var out []string
	for _, k := range a {
		if _, ok := in[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
