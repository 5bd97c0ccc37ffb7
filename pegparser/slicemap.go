package pegparser

type mapItem struct {
	data interface{}
	idx  int
}

type SliceItem struct {
	key  interface{}
	data interface{}
}

func (i SliceItem) Key() interface{} {
	return i.key
}

func (i SliceItem) Data() interface{} {
	return i.data
}

// SliceMap is a map that remembers insertion order. Descriptor sections and
// records are serialised in this order.
type SliceMap struct {
	mp map[interface{}]*mapItem
	sl []*SliceItem
}

func NewSliceMap() *SliceMap {
	return &SliceMap{
		mp: make(map[interface{}]*mapItem),
		sl: make([]*SliceItem, 0),
	}
}

func (m *SliceMap) ForceGet(key interface{}) interface{} {
	v, found := m.mp[key]
	if found {
		return v.data
	}
	return nil
}

func (m *SliceMap) Get(key interface{}) (interface{}, bool) {
	v, found := m.mp[key]
	if found {
		return v.data, true
	}
	return nil, false
}

func (m *SliceMap) Set(key, v interface{}) {
	old, found := m.mp[key]
	if found {
		old.data = v
		m.sl[old.idx] = &SliceItem{
			data: v,
			key:  key,
		}
		return
	}
	m.sl = append(m.sl, &SliceItem{key: key, data: v})
	m.mp[key] = &mapItem{
		data: v,
		idx:  len(m.sl) - 1,
	}
}

// InsertAfter places key right behind after. An existing key is moved; a
// missing after appends.
func (m *SliceMap) InsertAfter(after, key, v interface{}) {
	m.Delete(key)
	anchor, found := m.mp[after]
	if !found {
		m.Set(key, v)
		return
	}
	pos := anchor.idx + 1
	m.sl = append(m.sl, nil)
	copy(m.sl[pos+1:], m.sl[pos:])
	m.sl[pos] = &SliceItem{key: key, data: v}
	m.mp[key] = &mapItem{data: v}
	m.reindex(pos)
}

func (m *SliceMap) Has(key interface{}) bool {
	_, found := m.mp[key]
	return found
}

func (m *SliceMap) Delete(key interface{}) {
	old, found := m.mp[key]
	if !found {
		return
	}
	m.sl = append(m.sl[:old.idx], m.sl[old.idx+1:]...)
	delete(m.mp, key)
	m.reindex(old.idx)
}

func (m *SliceMap) reindex(from int) {
	for i := from; i < len(m.sl); i++ {
		m.mp[m.sl[i].key].idx = i
	}
}

func (m *SliceMap) Clear() {
	m.mp = make(map[interface{}]*mapItem)
	m.sl = make([]*SliceItem, 0)
}

func (m *SliceMap) Size() int {
	return len(m.sl)
}

func (m *SliceMap) Items() []*SliceItem {
	return m.sl
}

func (m *SliceMap) Keys() []interface{} {
	keys := make([]interface{}, len(m.sl))
	for i, item := range m.sl {
		keys[i] = item.key
	}
	return keys
}

func (m *SliceMap) IndexOf(key interface{}) int {
	v, found := m.mp[key]
	if !found {
		return -1
	}
	return v.idx
}

func (m *SliceMap) GetAt(idx int) (interface{}, bool) {
	if idx < 0 || idx >= len(m.sl) {
		return nil, false
	}
	return m.sl[idx].data, true
}

func (m *SliceMap) DeleteAt(idx int) {
	if idx < 0 || idx >= len(m.sl) {
		return
	}
	m.Delete(m.sl[idx].key)
}
