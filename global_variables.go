package main

import (
	"context"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"golang.org/x/exp/slices"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/utils"
)

// Tasks 全部任务 taskId -> *Task，多个请求并发写入
var Tasks = cmap.New()

// TaskInfo 返回给前端的任务状态
type TaskInfo struct {
	TaskId    string `json:"taskId"`
	Input     string `json:"input"`
	Status    string `json:"status"`
	StartTime int64  `json:"startTime"`
	SpentTime int64  `json:"spentTime"` // ms

	Result  *TaskResult `json:"result,omitempty"`
	ErrCode uint32      `json:"errCode,omitempty"`
	ErrMsg  string      `json:"errMsg,omitempty"`
}

type Task struct {
	info   TaskInfo
	cancel context.CancelFunc
	lock   sync.RWMutex
}

// RegisterTask 登记新任务
func RegisterTask(taskId, input string, cancel context.CancelFunc) *Task {
	task := &Task{
		info: TaskInfo{
			TaskId:    taskId,
			Input:     input,
			Status:    enum.SYNTH_EXEC,
			StartTime: time.Now().UnixMilli(),
		},
		cancel: cancel,
	}
	Tasks.Set(taskId, task)
	return task
}

func GetTask(taskId string) (*Task, error) {
	v, ok := Tasks.Get(taskId)
	if !ok {
		return nil, utils.ErrTaskNotExist
	}
	return v.(*Task), nil
}

// Finish 记录结果，err不为空时任务失败
func (t *Task) Finish(res *TaskResult, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.info.SpentTime = time.Now().UnixMilli() - t.info.StartTime
	if err != nil {
		se := utils.ToServiceError(err)
		t.info.Status = enum.SYNTH_FAIL
		t.info.ErrCode = se.Code
		t.info.ErrMsg = se.Error()
		return
	}
	t.info.Result = res
	t.info.Status = res.Status
}

// Stop 取消还在执行的任务，在下一轮开始时生效
func (t *Task) Stop() {
	t.lock.RLock()
	defer t.lock.RUnlock()
	if t.info.Status == enum.SYNTH_EXEC && t.cancel != nil {
		t.cancel()
	}
}

func (t *Task) Info() TaskInfo {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.info
}

// ListTasks 全部任务，按开始时间排序
func ListTasks() []TaskInfo {
	out := make([]TaskInfo, 0, Tasks.Count())
	for _, v := range Tasks.Items() {
		out = append(out, v.(*Task).Info())
	}
	slices.SortFunc(out, func(a, b TaskInfo) bool {
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.TaskId < b.TaskId
	})
	return out
}
