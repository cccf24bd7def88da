package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ifm-synth/ifm-share/base/config"
	"ifm-synth/ifm-share/base/logger"
	"ifm-synth/utils"
)

func main() {
	// 一些初始化配置
	config.InitConfig()
	all := config.All
	l := all.Logger
	ss := all.Server
	logger.InitLogger(l.Level, "ifm", l.Path, l.MaxAge, l.RotationTime, l.RotationSize, ss.SentryDsn)

	// ifm-synth <CONF> 直接执行一个任务
	if len(os.Args) > 1 {
		code := runConf(os.Args[1])
		logger.Sync()
		os.Exit(code)
	}

	r := gin.Default()
	r.POST("/synth", start)
	r.GET("/tasks", tasks)
	r.GET("/tasks/:id", task)
	r.POST("/tasks/:id/stop", stop)

	address := ":" + ss.HttpPort
	if err := r.Run(address); err != nil {
		logger.Errorf("gin run failed, address:%s, err:%v", address, err)
	}
}

func runConf(path string) int {
	job, err := config.ReadJobConf(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read CONF %s failed: %v\n", path, err)
		return 2
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	taskId := newTaskId()
	res, err := Synthesize(ctx, taskId, job, os.Stdout)
	if err != nil {
		se := utils.ToServiceError(err)
		fmt.Fprintln(os.Stderr, se.Error())
		return 1
	}
	fmt.Printf("%s %s rows:%d violations:%d spent:%dms\n", res.Status, res.OutputPath, res.Rows, res.Violations, res.SpentTime)
	return 0
}

func newTaskId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

func start(c *gin.Context) {
	var requestJson SynthRequest
	if err := c.ShouldBindJSON(&requestJson); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		logger.Warnf("bad synth request: %v", err)
		return
	}
	job, err := requestJson.JobConf()
	if err != nil {
		se := utils.ErrParameter.Wrap(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    se.Code,
			"error":   se.Error(),
		})
		return
	}

	taskId := newTaskId()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := RegisterTask(taskId, job.InputTableName, cancel)
	res, err := Synthesize(ctx, taskId, job, nil)
	t.Finish(res, err)

	if err != nil {
		se := utils.ToServiceError(err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"taskId":  taskId,
			"code":    se.Code,
			"error":   se.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"taskId":  taskId,
		"result":  res,
	})
}

func tasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   ListTasks(),
	})
}

func task(c *gin.Context) {
	t, err := GetTask(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    t.Info(),
	})
}

func stop(c *gin.Context) {
	t, err := GetTask(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	t.Stop()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    t.Info(),
	})
}
