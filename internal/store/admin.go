package store

import "fmt"

// SizeBytes returns the sum of the serialized sizes of every stored entry
// across all namespaces.
func (s *Store) SizeBytes() (int64, error) {
	var total int64
	for _, ns := range namespaces {
		var size int64
		err := s.db.QueryRow(
			fmt.Sprintf(`SELECT COALESCE(SUM(byte_size), 0) FROM %s`, ns),
		).Scan(&size)
		if err != nil {
			return 0, fmt.Errorf("size of %s: %w", ns, err)
		}
		total += size
	}
	return total, nil
}

// ClearAll deletes every stored entry in every namespace. The namespaces
// themselves remain, ready for new writes. Calling it on an empty store is
// a no-op.
func (s *Store) ClearAll() error {
	for _, ns := range namespaces {
		if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s`, ns)); err != nil {
			return fmt.Errorf("clear %s: %w", ns, err)
		}
	}
	return nil
}
