package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/LinkinStars/golang-util/gu"

	"ifm-synth/ifm-share/base/logger"
)

// GetCsvData 读取整个csv
func GetCsvData(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Errorf("open csv failed, path:%s, err:%v", path, err)
		return nil, ErrOpenCsv.Wrap(err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	preData, err := reader.ReadAll()
	if err != nil {
		logger.Errorf("read csv failed, path:%s, err:%v", path, err)
		return nil, ErrReadCsv.Wrap(err)
	}
	return preData, nil
}

// CreateCsv 写csv，目录不存在时创建
func CreateCsv(path string, data [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := gu.CreateDirIfNotExist(dir); err != nil {
			return err
		}
	}
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	err = csvWriter.WriteAll(data)
	if err != nil {
		logger.Errorf("write csv failed, path:%s, err:%v", path, err)
		return err
	}
	return nil
}
