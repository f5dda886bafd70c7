package domain

// CellRender - результат разрешения визуального состояния одной ячейки.
// Заполнен либо цвет, либо градиент (для половинных дней), либо ничего
type CellRender struct {
	BackgroundColor    string `json:"backgroundColor,omitempty"`
	BackgroundGradient string `json:"backgroundGradient,omitempty"`
	TooltipText        string `json:"tooltipText,omitempty"`
}

// MatrixRow - строка матрицы: персона и ее ячейки, по одной на колонку
type MatrixRow struct {
	Person Person       `json:"person"`
	Cells  []CellRender `json:"cells"`
}

// MatrixSnapshot - производное состояние матрицы, публикуется подписчикам
// после каждого пересчета
type MatrixSnapshot struct {
	Range  DateRange     `json:"range"`
	Theme  Theme         `json:"theme"`
	Filter TeamFilter    `json:"filter"`
	Sort   SortState     `json:"sort"`
	Days   []CalendarDay `json:"days"`
	Rows   []MatrixRow   `json:"rows"`

	// Счетчики членства для UI фильтра, ключ - строковый id команды
	TeamCounts map[string]int `json:"teamCounts,omitempty"`
}
