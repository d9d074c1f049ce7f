package snapshot

import (
	"fmt"

	"github.com/collectgame/server/internal/players"
	"github.com/collectgame/server/internal/world"
)

// formatVersion guards against loading a snapshot written by an
// incompatible build.
const formatVersion = 1

// Snapshot is the full persisted state: every session's world data plus the
// player/token table (spec.md §4.8).
type Snapshot struct {
	Sessions []world.State
	Players  []players.Entry
}

// Encode serializes snap to a binary buffer.
func Encode(snap Snapshot) []byte {
	w := NewWriter()
	w.WriteUint32(formatVersion)

	w.WriteUint32(uint32(len(snap.Sessions)))
	for _, s := range snap.Sessions {
		encodeSession(w, s)
	}

	w.WriteUint32(uint32(len(snap.Players)))
	for _, e := range snap.Players {
		w.WriteString(e.Token)
		w.WriteString(e.Name)
		w.WriteUint64(e.DogID)
		w.WriteString(e.MapID)
	}

	return w.Bytes()
}

func encodeSession(w *Writer, s world.State) {
	w.WriteString(s.MapID)
	w.WriteUint64(s.NextDogID)
	w.WriteUint64(s.NextLootID)

	w.WriteUint32(uint32(len(s.Dogs)))
	for _, d := range s.Dogs {
		w.WriteUint64(d.ID)
		w.WriteString(d.Name)
		w.WriteFloat64(d.Position.X)
		w.WriteFloat64(d.Position.Y)
		w.WriteFloat64(d.Velocity.X)
		w.WriteFloat64(d.Velocity.Y)
		w.WriteByte(byte(d.Facing))
		w.WriteInt64(int64(d.InGame))
		w.WriteInt64(int64(d.Standby))
		w.WriteInt32(int32(d.Score))
		w.WriteUint32(uint32(len(d.Bag)))
		for _, be := range d.Bag {
			w.WriteUint64(be.LootID)
			w.WriteInt32(int32(be.LootType))
		}
	}

	w.WriteUint32(uint32(len(s.Loot)))
	for _, l := range s.Loot {
		w.WriteUint64(l.ID)
		w.WriteInt32(int32(l.Type))
		w.WriteFloat64(l.Position.X)
		w.WriteFloat64(l.Position.Y)
	}
}

// Decode parses a buffer written by Encode.
func Decode(data []byte) (Snapshot, error) {
	r := NewReader(data)

	version, err := r.ReadUint32()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: read version: %w", err)
	}
	if version != formatVersion {
		return Snapshot{}, fmt.Errorf("snapshot: unsupported format version %d", version)
	}

	sessionCount, err := r.ReadUint32()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: read session count: %w", err)
	}
	sessions := make([]world.State, 0, sessionCount)
	for i := uint32(0); i < sessionCount; i++ {
		s, err := decodeSession(r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot: session %d: %w", i, err)
		}
		sessions = append(sessions, s)
	}

	playerCount, err := r.ReadUint32()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: read player count: %w", err)
	}
	entries := make([]players.Entry, 0, playerCount)
	for i := uint32(0); i < playerCount; i++ {
		token, err := r.ReadString()
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot: player %d token: %w", i, err)
		}
		name, err := r.ReadString()
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot: player %d name: %w", i, err)
		}
		dogID, err := r.ReadUint64()
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot: player %d dogId: %w", i, err)
		}
		mapID, err := r.ReadString()
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot: player %d mapId: %w", i, err)
		}
		entries = append(entries, players.Entry{Token: token, Name: name, DogID: dogID, MapID: mapID})
	}

	return Snapshot{Sessions: sessions, Players: entries}, nil
}

func decodeSession(r *Reader) (world.State, error) {
	var s world.State
	var err error

	if s.MapID, err = r.ReadString(); err != nil {
		return s, fmt.Errorf("mapId: %w", err)
	}
	if s.NextDogID, err = r.ReadUint64(); err != nil {
		return s, fmt.Errorf("nextDogId: %w", err)
	}
	if s.NextLootID, err = r.ReadUint64(); err != nil {
		return s, fmt.Errorf("nextLootId: %w", err)
	}

	dogCount, err := r.ReadUint32()
	if err != nil {
		return s, fmt.Errorf("dog count: %w", err)
	}
	s.Dogs = make([]world.DogState, 0, dogCount)
	for i := uint32(0); i < dogCount; i++ {
		d, err := decodeDog(r)
		if err != nil {
			return s, fmt.Errorf("dog %d: %w", i, err)
		}
		s.Dogs = append(s.Dogs, d)
	}

	lootCount, err := r.ReadUint32()
	if err != nil {
		return s, fmt.Errorf("loot count: %w", err)
	}
	s.Loot = make([]world.LootState, 0, lootCount)
	for i := uint32(0); i < lootCount; i++ {
		id, err := r.ReadUint64()
		if err != nil {
			return s, fmt.Errorf("loot %d id: %w", i, err)
		}
		typ, err := r.ReadInt32()
		if err != nil {
			return s, fmt.Errorf("loot %d type: %w", i, err)
		}
		x, err := r.ReadFloat64()
		if err != nil {
			return s, fmt.Errorf("loot %d posX: %w", i, err)
		}
		y, err := r.ReadFloat64()
		if err != nil {
			return s, fmt.Errorf("loot %d posY: %w", i, err)
		}
		s.Loot = append(s.Loot, world.LootState{ID: id, Type: int(typ), Position: pointXY(x, y)})
	}

	return s, nil
}

func decodeDog(r *Reader) (world.DogState, error) {
	var d world.DogState
	var err error

	if d.ID, err = r.ReadUint64(); err != nil {
		return d, fmt.Errorf("id: %w", err)
	}
	if d.Name, err = r.ReadString(); err != nil {
		return d, fmt.Errorf("name: %w", err)
	}
	px, err := r.ReadFloat64()
	if err != nil {
		return d, fmt.Errorf("posX: %w", err)
	}
	py, err := r.ReadFloat64()
	if err != nil {
		return d, fmt.Errorf("posY: %w", err)
	}
	d.Position = pointXY(px, py)
	vx, err := r.ReadFloat64()
	if err != nil {
		return d, fmt.Errorf("velX: %w", err)
	}
	vy, err := r.ReadFloat64()
	if err != nil {
		return d, fmt.Errorf("velY: %w", err)
	}
	d.Velocity = pointXY(vx, vy)

	facing, err := r.ReadByte()
	if err != nil {
		return d, fmt.Errorf("facing: %w", err)
	}
	d.Facing = world.Direction(facing)

	inGame, err := r.ReadInt64()
	if err != nil {
		return d, fmt.Errorf("inGame: %w", err)
	}
	d.InGame = durationOf(inGame)

	standby, err := r.ReadInt64()
	if err != nil {
		return d, fmt.Errorf("standby: %w", err)
	}
	d.Standby = durationOf(standby)

	score, err := r.ReadInt32()
	if err != nil {
		return d, fmt.Errorf("score: %w", err)
	}
	d.Score = int(score)

	bagCount, err := r.ReadUint32()
	if err != nil {
		return d, fmt.Errorf("bag count: %w", err)
	}
	d.Bag = make([]world.BagEntry, 0, bagCount)
	for i := uint32(0); i < bagCount; i++ {
		lootID, err := r.ReadUint64()
		if err != nil {
			return d, fmt.Errorf("bag %d lootId: %w", i, err)
		}
		lootType, err := r.ReadInt32()
		if err != nil {
			return d, fmt.Errorf("bag %d lootType: %w", i, err)
		}
		d.Bag = append(d.Bag, world.BagEntry{LootID: lootID, LootType: int(lootType)})
	}

	return d, nil
}
