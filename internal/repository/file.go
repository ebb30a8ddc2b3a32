package repository

import (
	"encoding/json"
	"os"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// LoadSnapshotFile 从 JSON 快照文件读取排班输入
func LoadSnapshotFile(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "读取快照文件失败")
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "解析快照文件失败")
	}

	return &snap, nil
}

// SaveSnapshotFile 把排班输入写为 JSON 快照文件，便于离线复现同一次求解
func SaveSnapshotFile(path string, snap *model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "序列化快照失败")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "写入快照文件失败")
	}

	return nil
}
