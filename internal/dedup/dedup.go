// dedup — множество уже встреченных ссылок на время жизни процесса.
//
// Это быстрая in-memory оптимизация: истинный инвариант уникальности
// обеспечивает ограничение UNIQUE(link) в хранилище. Вытеснения нет —
// рост множества не ограничен.
package dedup

// Set не потокобезопасен: им владеет единственная горутина опроса.
type Set struct {
	seen map[string]struct{}
}

// New создаёт пустое множество.
func New() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// IsNew возвращает true, если ссылка встречена впервые, и помечает её.
func (s *Set) IsNew(link string) bool {
	if _, ok := s.seen[link]; ok {
		return false
	}

	s.seen[link] = struct{}{}

	return true
}

// Contains сообщает, встречалась ли ссылка, не помечая её.
func (s *Set) Contains(link string) bool {
	_, ok := s.seen[link]
	return ok
}

// Len — количество встреченных ссылок.
func (s *Set) Len() int {
	return len(s.seen)
}
