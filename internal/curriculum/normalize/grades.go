package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

var gradeCategories = []string{"elementary", "middle_school", "high_school"}

// gradeList flattens the categorized grades object in school order. Flat
// lists go through the generic coercion. Adult levels are always dropped.
func gradeList(root gjson.Result, raw string) ([]domain.Item, error) {
	var items []domain.Item
	categorized := false
	if root.IsObject() {
		for _, cat := range gradeCategories {
			v := root.Get(cat)
			if !v.Exists() {
				continue
			}
			categorized = true
			list := v.Get("grades")
			if !list.IsArray() && v.IsArray() {
				list = v
			}
			for _, el := range list.Array() {
				it := toItem(len(items), el, false)
				it.Category = cat
				items = append(items, it)
			}
		}
	}
	if !categorized {
		var err error
		items, err = itemList(domain.StageGrades, root, raw, false)
		if err != nil {
			return nil, err
		}
	}

	out := items[:0]
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), "adult") {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
