package world

import "github.com/collectgame/server/internal/geom"

// runCollisions implements spec.md §4.4 step 4: gatherers are each dog's
// swept path this tick; items are current loot followed by offices. Events
// are processed in FindGatherEvents' canonical order (ascending t, then
// gatherer/item index).
func (s *Session) runCollisions(ids []uint64, starts, ends map[uint64]geom.Point) {
	gatherers := make([]geom.Gatherer, len(ids))
	for i, id := range ids {
		gatherers[i] = geom.Gatherer{
			StartPos: starts[id],
			EndPos:   ends[id],
			Width:    gathererWidth,
		}
	}

	lootIDs := s.sortedLootIDs()
	items := make([]geom.Item, 0, len(lootIDs)+len(s.Map.Offices))
	refs := make([]itemRef, 0, cap(items))
	for _, lootID := range lootIDs {
		l := s.Loot[lootID]
		items = append(items, geom.Item{Position: l.Position, Width: 0})
		refs = append(refs, itemRef{kind: kindLoot, lootID: l.ID, lootType: l.Type})
	}
	for oi, office := range s.Map.Offices {
		items = append(items, geom.Item{Position: office.Position, Width: officeRadius})
		refs = append(refs, itemRef{kind: kindOffice, officeIdx: oi})
	}

	events := geom.FindGatherEvents(items, gatherers)

	consumed := make(map[uint64]bool, len(lootIDs))
	for _, ev := range events {
		d := s.Dogs[ids[ev.GathererIdx]]
		ref := refs[ev.ItemIdx]

		switch ref.kind {
		case kindLoot:
			if consumed[ref.lootID] {
				continue
			}
			if d.bagFull(s.Map.BagCapacity) {
				continue
			}
			consumed[ref.lootID] = true
			d.Bag = append(d.Bag, BagEntry{LootID: ref.lootID, LootType: ref.lootType})
			delete(s.Loot, ref.lootID)
		case kindOffice:
			if len(d.Bag) == 0 {
				continue
			}
			sum := 0
			for _, be := range d.Bag {
				sum += s.Map.LootValue(be.LootType)
			}
			d.Score += sum
			d.Bag = d.Bag[:0]
		}
	}
}
