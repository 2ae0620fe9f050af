package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/cinelog/internal/model"
)

// Collection 持久化的全量数据（单个 JSON 文档，无 schema 版本字段）
type Collection struct {
	Reviews []model.Review `json:"reviews"`
}

// Store JSON 文件存储
// 整库读写：每次操作读入全部记录，改完后整体写回。
// 进程级互斥锁把每个读-改-写周期串行化，避免并发写入互相覆盖。
type Store struct {
	path string
	mu   sync.Mutex
}

// New 创建存储实例，path 为数据文件完整路径
func New(path string) *Store {
	return &Store{path: path}
}

// Read 读取全量数据；目录和文件不存在时透明返回空集合
func (s *Store) Read() (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Mutate 在互斥锁内执行一次完整的读-改-写周期
// fn 返回错误时不落盘
func (s *Store) Mutate(fn func(c *Collection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.write(c)
}

func (s *Store) read() (*Collection, error) {
	if err := s.ensureDataDir(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Collection{Reviews: []model.Review{}}, nil
		}
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("解析数据文件失败: %w", err)
	}
	if c.Reviews == nil {
		c.Reviews = []model.Review{}
	}
	return &c, nil
}

// write 序列化并整体覆盖数据文件
// 先写临时文件再原子重命名，进程崩溃不会留下截断的文件
func (s *Store) write(c *Collection) error {
	if err := s.ensureDataDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化数据失败: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "reviews-*.json.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入数据文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("替换数据文件失败: %w", err)
	}
	return nil
}

func (s *Store) ensureDataDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	return nil
}
