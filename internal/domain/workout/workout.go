package workout

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleDateLayout — формат даты в заголовке тренировки (DD.MM.YYYY).
const TitleDateLayout = "02.01.2006"

// Training представляет тренировку — корень дерева сущностей.
//
// Title — производное поле: текстовая проекция даты и упорядоченного списка
// названий групп мышц. Источником истины всегда являются сами группы
// (в порядке создания); заголовок никогда не разбирается обратно.
type Training struct {
	ID           int64
	Date         time.Time
	Title        string
	UserID       uuid.UUID // Владелец; копируется на всех потомков
	MuscleGroups []*MuscleGroup
}

// MuscleGroup представляет группу мышц внутри тренировки.
// Название уникально в пределах тренировки и приводится к Title Case при записи.
type MuscleGroup struct {
	ID         int64
	TrainingID int64
	GroupName  string
	UserID     uuid.UUID
	Exercises  []*Exercise
}

// Exercise представляет упражнение внутри группы мышц.
//
// NumbersReps — производный счётчик: всегда равен количеству подходов (Sets)
// и пересчитывается в той же транзакции, что и изменение подходов.
type Exercise struct {
	ID            int64
	MuscleGroupID int64
	ExerciseName  string
	Weight        float64
	NumbersReps   int
	UserID        uuid.UUID
	Sets          []*Set
}

// Set представляет один подход упражнения.
type Set struct {
	ID           int64
	ExerciseID   int64
	WeightPerExe float64
	Reps         int
	UserID       uuid.UUID
}

// NormalizeGroupName приводит название группы мышц к каноническому виду:
// обрезает пробелы и переводит в Title Case ("chest" -> "Chest").
// Caser хранит внутреннее состояние и не переживает одновременное
// использование из нескольких горутин, поэтому создаётся на каждый вызов.
func NormalizeGroupName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// Title синтезирует заголовок тренировки из даты и упорядоченного списка
// названий групп: "DD.MM.YYYY-Name1, Name2". Для пустого списка остаётся
// только дата.
func Title(date time.Time, groupNames []string) string {
	if len(groupNames) == 0 {
		return date.Format(TitleDateLayout)
	}
	return date.Format(TitleDateLayout) + "-" + strings.Join(groupNames, ", ")
}

// GroupNames возвращает названия групп тренировки в порядке создания.
func (t *Training) GroupNames() []string {
	names := make([]string, 0, len(t.MuscleGroups))
	for _, g := range t.MuscleGroups {
		names = append(names, g.GroupName)
	}
	return names
}

// HasGroup сообщает, есть ли в тренировке группа с данным названием
// (сравнение без учёта регистра; name может быть в любом виде).
func (t *Training) HasGroup(name string) bool {
	for _, g := range t.MuscleGroups {
		if strings.EqualFold(g.GroupName, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
