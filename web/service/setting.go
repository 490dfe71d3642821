package service

import (
	"strconv"
	"time"

	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/util/common"
	"github.com/Kagamine/InternEvaluate/util/random"
	"github.com/Kagamine/InternEvaluate/web/entity"
)

var defaultValueMap = map[string]string{
	"webListen":     "",
	"webPort":       "8080",
	"webBasePath":   "/",
	"sessionMaxAge": "60",
	"secret":        random.Seq(32),
	"timeLocation":  "Asia/Shanghai",
}

type SettingService struct{}

func (s *SettingService) GetAllSetting() (*entity.AllSetting, error) {
	listen, err := s.GetListen()
	if err != nil {
		return nil, err
	}
	port, err := s.GetPort()
	if err != nil {
		return nil, err
	}
	basePath, err := s.GetBasePath()
	if err != nil {
		return nil, err
	}
	sessionMaxAge, err := s.GetSessionMaxAge()
	if err != nil {
		return nil, err
	}
	timeLocation, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	return &entity.AllSetting{
		WebListen:     listen,
		WebPort:       port,
		WebBasePath:   basePath,
		SessionMaxAge: sessionMaxAge,
		TimeLocation:  timeLocation,
	}, nil
}

func (s *SettingService) ResetSettings() error {
	db := database.GetDB()
	return db.Where("1 = 1").Delete(model.Setting{}).Error
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Key = key
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) SetListen(ip string) error {
	return s.setString("webListen", ip)
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	return s.setInt("webPort", port)
}

func (s *SettingService) GetBasePath() (string, error) {
	basePath, err := s.getString("webBasePath")
	if err != nil {
		return "", err
	}
	if basePath == "" {
		basePath = "/"
	}
	if basePath[len(basePath)-1] != '/' {
		basePath += "/"
	}
	return basePath, nil
}

func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

// GetSecret returns the cookie signing secret, persisting the generated
// default on first use so sessions survive restarts.
func (s *SettingService) GetSecret() (string, error) {
	_, err := s.getSetting("secret")
	if database.IsNotFound(err) {
		if err := s.saveSetting("secret", defaultValueMap["secret"]); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return s.getString("secret")
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		defaultLocation := defaultValueMap["timeLocation"]
		location, err = time.LoadLocation(defaultLocation)
	}
	return location, err
}
