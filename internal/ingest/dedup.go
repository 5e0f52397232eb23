package ingest

// DedupIndex хранит множество канонических идентификаторов (brand),
// уже присутствующих в хранилище или зарезервированных текущей партией.
// Экземпляр не предназначен для конкурентного использования из разных партий
type DedupIndex struct {
	seen map[string]struct{}
}

// NewDedupIndex создаёт индекс, заполненный brand существующих записей
func NewDedupIndex(existing []string) *DedupIndex {
	seen := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		seen[b] = struct{}{}
	}
	return &DedupIndex{seen: seen}
}

// TryReserve резервирует идентификатор: возвращает true и запоминает его,
// если он ещё не встречался, иначе false. Единственная точка мутации индекса
func (i *DedupIndex) TryReserve(id string) bool {
	if _, ok := i.seen[id]; ok {
		return false
	}
	i.seen[id] = struct{}{}
	return true
}
