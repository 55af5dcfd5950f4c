// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Response cache for computed endpoints. Every entry is an lz4-compressed
// JSON body keyed by a blake3 hash of the canonicalized request. There is
// no local eviction policy beyond LRU capacity and no local TTL; entries
// are valid for the life of the process because the backing dataset is
// read-only.

var ctx = context.Background()
var rdb *redis.Client
var cache *lru.Cache

func SetupCache() {
	var err error
	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			log.Error().Err(err).Msg("could not parse redis URL")
			os.Exit(1)
		}

		rdb = redis.NewClient(opt)
	}

	sz := viper.GetInt("cache.local_size")
	if sz == 0 {
		sz = 256
	}

	cache, err = lru.New(sz)
	if err != nil {
		log.Error().Err(err).Msg("could not create LRU cache")
		os.Exit(1)
	}
}

// CacheKey computes the cache key for a canonicalized request body
func CacheKey(prefix string, body []byte) string {
	h := blake3.New()
	if _, err := h.Write(body); err != nil {
		log.Error().Stack().Err(err).Msg("could not write request to blake3 hasher")
	}
	digest := h.Sum(nil)
	return prefix + ":" + hex.EncodeToString(digest)
}

func CacheSet(key string, raw []byte) error {
	b2, err := compress(raw)
	if err != nil {
		return err
	}
	cache.Add(key, b2)

	if viper.GetBool("cache.redis") {
		expires := time.Duration(viper.GetInt("cache.ttl")) * time.Second
		return rdb.Set(ctx, key, b2, expires).Err()
	}
	return nil
}

func CacheGet(key string) ([]byte, bool) {
	if v2, ok := cache.Get(key); ok {
		val, err := decompress(v2.([]byte))
		if err != nil {
			log.Warn().Err(err).Str("Key", key).Msg("could not decompress cached value")
			return nil, false
		}
		return val, true
	}

	if viper.GetBool("cache.redis") {
		expires := time.Duration(viper.GetInt("cache.ttl")) * time.Second
		val, err := rdb.GetEx(ctx, key, expires).Bytes()
		if err != nil {
			return nil, false
		}
		val, err = decompress(val)
		if err != nil {
			return nil, false
		}
		return val, true
	}

	return nil, false
}

func compress(in []byte) ([]byte, error) {
	r := bytes.NewReader(in)
	w := &bytes.Buffer{}
	zw := lz4.NewWriter(w)
	if _, err := io.Copy(zw, r); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func decompress(in []byte) ([]byte, error) {
	r := bytes.NewReader(in)
	w := &bytes.Buffer{}
	zr := lz4.NewReader(r)
	if _, err := io.Copy(w, zr); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
