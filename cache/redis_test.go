package cache

import (
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
)

func TestRedisStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:cache")

	entries := []Entry{
		{Key: "en:zh:hello", Value: "你好"},
		{Key: "en:zh:world", Value: "世界"},
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectSet("test:cache", data, 0).SetVal("OK")

	if err := store.Save(entries); err != nil {
		t.Errorf("Save failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Load(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:cache")

	entries := []Entry{
		{Key: "en:zh:hello", Value: "你好"},
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectGet("test:cache").SetVal(string(data))

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != entries[0] {
		t.Errorf("loaded = %+v, want %+v", loaded, entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Load_MissingKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:cache")

	mock.ExpectGet("test:cache").RedisNil()

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d entries from missing key, want 0", len(loaded))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Load_CorruptSnapshot(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:cache")

	mock.ExpectGet("test:cache").SetVal("{not json")

	if _, err := store.Load(); err == nil {
		t.Error("corrupt snapshot should report an error")
	}
}

func TestRedisStore_Clear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:cache")

	mock.ExpectDel("test:cache").SetVal(1)

	if err := store.Clear(); err != nil {
		t.Errorf("Clear failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_DefaultKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "")

	mock.ExpectGet("translator:cache").RedisNil()

	if _, err := store.Load(); err != nil {
		t.Errorf("Load failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
