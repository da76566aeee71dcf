package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/ignatzorin/extrasite-backend/internal/models"
)

// BoardPrefix - префикс всех ключей мурала вакансий.
const BoardPrefix = "board:"

// BoardKey строит ключ страницы мурала по фильтру.
func BoardKey(f models.JobBoardFilter) string {
	category, city := "*", "*"
	if f.Category != nil {
		category = string(*f.Category)
	}
	if f.City != nil {
		city = strings.ToLower(strings.TrimSpace(*f.City))
	}
	return fmt.Sprintf("%s%s:%s:%s:%d:%d", BoardPrefix, f.From.Format(time.DateOnly), category, city, f.Limit, f.Offset)
}
